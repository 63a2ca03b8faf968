package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"ecomcli/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "ECOM"

// ConfigFileEnv names the environment variable pointing at a YAML config file.
const ConfigFileEnv = "ECOM_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Execution ExecutionConfig `yaml:"execution" envconfig:"EXECUTION"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// InputConfig describes where the raw transaction table comes from
type InputConfig struct {
	Path   string `yaml:"path" split_words:"true"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=auto csv xlsx db"`
	Sheet  string `yaml:"sheet" split_words:"true"`
	Table  string `yaml:"table" split_words:"true"`
}

// OutputConfig controls which artifacts are written and where
type OutputConfig struct {
	Dir          string   `yaml:"dir" split_words:"true"`
	Formats      []string `yaml:"formats" split_words:"true" validate:"min=1,dive,oneof=csv xlsx json"`
	BOMPrefix    bool     `yaml:"bom_prefix" split_words:"true"`
	WorkbookName string   `yaml:"workbook_name" split_words:"true" validate:"required"`
	JSONName     string   `yaml:"json_name" split_words:"true" validate:"required"`
	Timestamped  bool     `yaml:"timestamped" split_words:"true"`
}

// AnalysisConfig holds the business rules of the metric stages
type AnalysisConfig struct {
	CancellationMarker string   `yaml:"cancellation_marker" split_words:"true" validate:"required"`
	SmallSegmentMax    float64  `yaml:"small_segment_max" split_words:"true" validate:"gt=0"`
	MediumSegmentMax   float64  `yaml:"medium_segment_max" split_words:"true" validate:"gtfield=SmallSegmentMax"`
	FrequentMaxDays    float64  `yaml:"frequent_max_days" split_words:"true" validate:"gt=0"`
	OccasionalMaxDays  float64  `yaml:"occasional_max_days" split_words:"true" validate:"gtefield=FrequentMaxDays"`
	RFMTiles           int      `yaml:"rfm_tiles" split_words:"true" validate:"min=1"`
	TopProductsLimit   int      `yaml:"top_products_limit" split_words:"true" validate:"min=1"`
	ParetoTopProducts  int      `yaml:"pareto_top_products" split_words:"true" validate:"min=1"`
	CohortPivotOffsets int      `yaml:"cohort_pivot_offsets" split_words:"true" validate:"min=1,max=24"`
	Reports            []string `yaml:"reports" split_words:"true"`
}

// ExecutionConfig controls how the aggregator steps are scheduled
type ExecutionConfig struct {
	Mode           string        `yaml:"mode" split_words:"true" validate:"oneof=sequential parallel"`
	MaxConcurrency int           `yaml:"max_concurrency" split_words:"true" validate:"min=1"`
	Timeout        time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
}

// StorageConfig configures the optional SQL source and sink
type StorageConfig struct {
	Enabled         bool          `yaml:"enabled" split_words:"true"`
	Driver          string        `yaml:"driver" split_words:"true" validate:"oneof=postgres mysql"`
	DSN             string        `yaml:"dsn" split_words:"true" validate:"required_if=Enabled true"`
	TablePrefix     string        `yaml:"table_prefix" split_words:"true"`
	MaxOpenConns    int           `yaml:"max_open_conns" split_words:"true" validate:"min=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns" split_words:"true" validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" split_words:"true"`
	Output      string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" split_words:"true"`
	Environment   string  `yaml:"environment" split_words:"true"`
	EnableTracing bool    `yaml:"enable_tracing" split_words:"true"`
	TraceExporter string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" validate:"min=0,max=1"`
	EnableMetrics bool    `yaml:"enable_metrics" split_words:"true"`
	MetricsFile   string  `yaml:"metrics_file" split_words:"true"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" split_words:"true"`
	DataDir    string `yaml:"data_dir" split_words:"true"`
	ReportsDir string `yaml:"reports_dir" split_words:"true"`
	LogsDir    string `yaml:"logs_dir" split_words:"true"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is like Load but reads the YAML file at filePath. An empty
// filePath skips the file layer.
func LoadFile(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lowercases enumerations and trims list values
func (c *Config) normalize() {
	c.Input.Format = strings.ToLower(strings.TrimSpace(c.Input.Format))
	c.Execution.Mode = strings.ToLower(strings.TrimSpace(c.Execution.Mode))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Output.Formats = normalizeList(c.Output.Formats)
	c.Analysis.Reports = normalizeList(c.Analysis.Reports)

	// JSON is the only supported log format
	c.Logging.Format = "json"
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}

	if c.Storage.MaxIdleConns > c.Storage.MaxOpenConns {
		return fmt.Errorf("storage max idle conns (%d) exceeds max open conns (%d)",
			c.Storage.MaxIdleConns, c.Storage.MaxOpenConns)
	}

	if c.Input.Format == "db" && !c.Storage.Enabled {
		return fmt.Errorf("input format db requires storage to be enabled")
	}

	for _, r := range c.Analysis.Reports {
		if !domain.IsKnownReport(r) {
			return fmt.Errorf("unknown report %q", r)
		}
	}

	return nil
}

// HasOutputFormat reports whether format is among the configured outputs
func (c *Config) HasOutputFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format: "auto",
			Table:  DefaultSourceTable,
		},
		Output: OutputConfig{
			Formats:      []string{"csv", "xlsx", "json"},
			BOMPrefix:    true,
			WorkbookName: DefaultWorkbookName,
			JSONName:     DefaultJSONName,
		},
		Analysis: AnalysisConfig{
			CancellationMarker: DefaultCancellationMarker,
			SmallSegmentMax:    DefaultSmallSegmentMax,
			MediumSegmentMax:   DefaultMediumSegmentMax,
			FrequentMaxDays:    DefaultFrequentMaxDays,
			OccasionalMaxDays:  DefaultOccasionalMaxDays,
			RFMTiles:           DefaultRFMTiles,
			TopProductsLimit:   DefaultTopProductsLimit,
			ParetoTopProducts:  DefaultParetoTopProducts,
			CohortPivotOffsets: DefaultCohortPivotOffsets,
		},
		Execution: ExecutionConfig{
			Mode:           "sequential",
			MaxConcurrency: 4,
			Timeout:        DefaultRunTimeout,
		},
		Storage: StorageConfig{
			Driver:          "postgres",
			TablePrefix:     DefaultTablePrefix,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/analyzer.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			TraceExporter: "none",
			SampleRatio:   1.0,
			EnableMetrics: true,
			MetricsFile:   DefaultMetricsFile,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
	}
}
