package operations

import (
	"time"

	"ecomcli/pkg/contracts/domain"
)

// Fixed pipeline step identifiers. Aggregator steps use their report name
// as step id.
const (
	StageIDExploration = domain.ReportExploration
	StageIDCleaning    = domain.ReportCleaning
)

// Fixed pipeline step names
const (
	StageNameExploration = "Data Exploration"
	StageNameCleaning    = "Data Cleaning"
)

// Default timeouts
const (
	DefaultStageTimeout       = 2 * time.Minute
	DefaultExplorationTimeout = 5 * time.Minute
	DefaultCleaningTimeout    = 5 * time.Minute
)

// ExecutionMode defines how independent steps are executed
type ExecutionMode string

const (
	ExecutionModeSequential ExecutionMode = "sequential"
	ExecutionModeParallel   ExecutionMode = "parallel"
)

// OperationRequest represents a request to run the analytics pipeline
type OperationRequest struct {
	ID string `json:"id"`
	// Reports selects the result tables to compute. Empty selects all.
	Reports []string `json:"reports,omitempty"`
	// Dataset is the raw input. It is never modified.
	Dataset *domain.Dataset `json:"-"`
}

// OperationResponse represents the outcome of a pipeline run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
	// Results holds every computed table; fields of reports that were not
	// requested are nil.
	Results *domain.AnalyticsResults `json:"results,omitempty"`
}
