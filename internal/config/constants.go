package config

import "time"

// Application Information
const (
	AppName        = "ecom-analyzer"
	AppDisplayName = "E-commerce Transaction Analyzer"
	AppVersion     = "1.0.0"
)

// Default Directories, relative to the base directory
const (
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
)

// Default artifact names
const (
	DefaultWorkbookName = "analytics.xlsx"
	DefaultJSONName     = "analytics.json"
	DefaultMetricsFile  = "metrics.prom"
	DefaultLogFile      = "analyzer.log"
)

// Storage defaults
const (
	DefaultSourceTable = "transactions"
	DefaultTablePrefix = "analytics_"
)

// Analysis defaults
const (
	DefaultCancellationMarker = "C"
	DefaultSmallSegmentMax    = 500.0
	DefaultMediumSegmentMax   = 2000.0
	DefaultFrequentMaxDays    = 30.0
	DefaultOccasionalMaxDays  = 90.0
	DefaultRFMTiles           = 3
	DefaultTopProductsLimit   = 10
	DefaultParetoTopProducts  = 5
	DefaultCohortPivotOffsets = 5
)

// Timeouts
const (
	DefaultRunTimeout      = 10 * time.Minute
	DefaultShutdownTimeout = 5 * time.Second
)
