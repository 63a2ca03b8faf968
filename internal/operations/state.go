package operations

import (
	"sync"
	"time"

	"ecomcli/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState is the pipeline object passed between steps. The raw
// dataset is read-only; the cleaned records are set once by the cleaning
// step; result tables are written through UpdateResults.
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	Error error `json:"error,omitempty"`

	dataset *domain.Dataset
	cleaned []domain.CleanedRecord
	results domain.AnalyticsResults
}

// NewOperationState creates a new operation state over dataset
func NewOperationState(id string, dataset *domain.Dataset) *OperationState {
	state := &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		dataset:   dataset,
	}
	state.results.RunID = id
	if dataset != nil {
		state.results.Source = dataset.Source
	}
	return state
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
	p.results.GeneratedAt = now
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatusValue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// Dataset returns the raw input
func (p *OperationState) Dataset() *domain.Dataset {
	return p.dataset
}

// RawRecords returns the raw records, or nil without a dataset
func (p *OperationState) RawRecords() []domain.RawRecord {
	if p.dataset == nil {
		return nil
	}
	return p.dataset.Records
}

// SetCleaned stores the cleaned dataset
func (p *OperationState) SetCleaned(records []domain.CleanedRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleaned = records
}

// Cleaned returns the cleaned dataset and whether it was produced
func (p *OperationState) Cleaned() ([]domain.CleanedRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cleaned, p.cleaned != nil
}

// UpdateResults applies fn to the result tables under the state lock
func (p *OperationState) UpdateResults(fn func(*domain.AnalyticsResults)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.results)
}

// Results returns a copy of the result tables
func (p *OperationState) Results() *domain.AnalyticsResults {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := p.results
	return &out
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// GetCompletedStages returns all completed steps
func (p *OperationState) GetCompletedStages() []*StepState {
	return p.stagesWithStatus(StepStatusCompleted)
}

// GetFailedStages returns all failed steps
func (p *OperationState) GetFailedStages() []*StepState {
	return p.stagesWithStatus(StepStatusFailed)
}

func (p *OperationState) stagesWithStatus(status StepStatus) []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*StepState
	for _, step := range p.Steps {
		if step.GetStatus() == status {
			out = append(out, step)
		}
	}
	return out
}

// IsComplete returns true if all steps are completed or skipped
func (p *OperationState) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		status := step.GetStatus()
		if status == StepStatusPending || status == StepStatusActive {
			return false
		}
	}
	return true
}

// HasFailures returns true if any Step has failed
func (p *OperationState) HasFailures() bool {
	return len(p.GetFailedStages()) > 0
}
