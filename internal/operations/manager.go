package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "ecomcli/internal/errors"
	"ecomcli/internal/infrastructure"
	"ecomcli/pkg/contracts/domain"
)

// Manager orchestrates pipeline execution
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new operation manager. Nil arguments fall back to
// an empty registry, the default config, no telemetry and slog.Default.
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   infrastructure.WithComponent(logger, "operations"),
	}
}

// RegisterStage registers a Step with the pipeline
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs the steps producing the requested reports, plus the steps
// they depend on. The returned response is never nil.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	ctx, runID := infrastructure.ContextWithRunID(ctx, req.ID)
	state := NewOperationState(runID, req.Dataset)

	if req.Dataset == nil {
		state.Fail(ErrMissingDataset)
		m.logOperationError(ctx, runID, ErrMissingDataset)
		return m.createResponse(state), ErrMissingDataset
	}

	for _, report := range req.Reports {
		if !domain.IsKnownReport(report) {
			err := &OperationError{
				Type:    ErrorTypeValidation,
				Step:    report,
				Message: "report is not produced by this pipeline",
				Cause:   apperrors.ErrUnknownReport,
			}
			state.Fail(err)
			m.logOperationError(ctx, runID, err)
			return m.createResponse(state), err
		}
	}

	levels, err := m.registry.Resolve(req.Reports)
	if err != nil {
		state.Fail(err)
		m.logOperationError(ctx, runID, fmt.Errorf("failed to resolve steps: %w", err))
		return m.createResponse(state), err
	}

	total := 0
	for _, level := range levels {
		for _, step := range level {
			state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
			total++
		}
	}

	if m.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.RunTimeout)
		defer cancel()
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, runID, m.config.ExecutionMode, req.Dataset.Len())
	defer span.End()

	m.logOperationStart(ctx, state, total)
	state.Start()
	progress := NewProgressTracker(runID, total)

	if m.config.ExecutionMode == ExecutionModeParallel {
		err = m.executeParallel(ctx, state, levels, progress)
	} else {
		err = m.executeSequential(ctx, state, levels, progress)
	}

	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	duration := state.Duration()
	m.tracer.RecordOperationCompletion(ctx, span, m.config.ExecutionMode, duration, err)
	if err != nil {
		m.logOperationError(ctx, runID, err)
	}
	m.logOperationComplete(ctx, runID, duration, state.GetStatus())

	return m.createResponse(state), err
}

// executeSequential executes steps one by one in dependency order
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, levels [][]Step, progress *ProgressTracker) error {
	for _, level := range levels {
		for _, step := range level {
			if err := ctx.Err(); err != nil {
				m.skipPending(state, "operation cancelled")
				return NewCancellationError(step.ID(), err)
			}
			if err := m.executeStage(ctx, state, step, progress); err != nil {
				m.skipPending(state, fmt.Sprintf("step %s failed", step.ID()))
				return err
			}
		}
	}
	return nil
}

// executeParallel runs each dependency level concurrently, bounded by
// MaxConcurrency. A level starts only after the previous one finished.
func (m *Manager) executeParallel(ctx context.Context, state *OperationState, levels [][]Step, progress *ProgressTracker) error {
	limit := m.config.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			m.skipPending(state, "operation cancelled")
			return NewCancellationError("", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, step := range level {
			g.Go(func() error {
				return m.executeStage(gctx, state, step, progress)
			})
		}
		if err := g.Wait(); err != nil {
			m.skipPending(state, "a step in the same run failed")
			return err
		}
	}
	return nil
}

// executeStage executes a single Step
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step, progress *ProgressTracker) error {
	stepState := state.GetStage(step.ID())

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(err.Error())
		return err
	}

	if err := ctx.Err(); err != nil {
		stepState.Skip("operation cancelled")
		return NewCancellationError(step.ID(), err)
	}

	if err := step.Validate(state); err != nil {
		verr := NewValidationError(step.ID(), err.Error())
		stepState.Fail(verr)
		m.logStageError(ctx, state.ID, step.ID(), verr)
		return verr
	}

	timeout := m.config.GetStageTimeout(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	m.logStageStart(stageCtx, state.ID, step.ID())
	stepState.Start()
	start := time.Now()
	err := step.Execute(stageCtx, state)
	duration := time.Since(start)

	if err != nil {
		switch {
		case ctx.Err() != nil:
			err = NewCancellationError(step.ID(), ctx.Err())
		case errors.Is(stageCtx.Err(), context.DeadlineExceeded):
			err = NewTimeoutError(step.ID(), timeout.String())
		default:
			err = WrapError(err, step.ID(), "step execution failed")
		}
		stepState.Fail(err)
		m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, 0, err)
		m.logStageError(stageCtx, state.ID, step.ID(), err)
		return err
	}

	stepState.Complete()
	rows := stepState.GetRows()
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, rows, nil)
	m.logStageComplete(stageCtx, state.ID, step.ID(), duration, rows)

	current, pct := progress.Increment(step.ID())
	m.logStageProgress(stageCtx, state.ID, step.ID(), current, pct, progress.GetETA())
	return nil
}

// skipPending marks every Step that has not started as skipped
func (m *Manager) skipPending(state *OperationState, reason string) {
	state.mu.RLock()
	defer state.mu.RUnlock()
	for _, s := range state.Steps {
		if s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// checkDependencies verifies that all dependencies are satisfied
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not found", dep))
		}
		if status := depState.GetStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
		}
	}
	return nil
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Steps,
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	if resp.Status == OperationStatusCompleted {
		resp.Results = state.Results()
	}

	return resp
}
