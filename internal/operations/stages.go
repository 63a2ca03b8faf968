package operations

import (
	"context"
	"fmt"
	"log/slog"

	"ecomcli/internal/analytics"
	"ecomcli/internal/dataprocessing"
	"ecomcli/internal/infrastructure"
	"ecomcli/pkg/contracts/domain"
)

// ExplorationStage reports on the raw dataset
type ExplorationStage struct {
	BaseStage
	explorer *dataprocessing.Explorer
	logger   *slog.Logger
}

// NewExplorationStage creates a new exploration Step
func NewExplorationStage(logger *slog.Logger, marker string) *ExplorationStage {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("step", StageIDExploration))

	return &ExplorationStage{
		BaseStage: NewBaseStage(StageIDExploration, StageNameExploration, nil),
		explorer:  dataprocessing.NewExplorer(logger, marker),
		logger:    logger,
	}
}

// Validate requires a dataset
func (s *ExplorationStage) Validate(state *OperationState) error {
	if state.Dataset() == nil {
		return ErrMissingDataset
	}
	return nil
}

// Execute runs the exploration report
func (s *ExplorationStage) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	report := s.explorer.Explore(state.RawRecords())
	state.UpdateResults(func(r *domain.AnalyticsResults) { r.Exploration = &report })
	state.GetStage(s.ID()).SetRows(report.RowCount)

	s.logger.InfoContext(ctx, "Exploration completed",
		slog.Int("rows", report.RowCount),
		slog.Int("cancelled_invoices", report.CancelledInvoices),
		slog.Int("distinct_customers", report.DistinctCustomers))
	return nil
}

// CleaningStage derives the cleaned dataset every aggregator reads
type CleaningStage struct {
	BaseStage
	cleaner *dataprocessing.Cleaner
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewCleaningStage creates a new cleaning Step. metrics may be nil.
func NewCleaningStage(logger *slog.Logger, marker string, metrics *infrastructure.PipelineMetrics) *CleaningStage {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("step", StageIDCleaning))

	return &CleaningStage{
		BaseStage: NewBaseStage(StageIDCleaning, StageNameCleaning, []string{StageIDExploration}),
		cleaner:   dataprocessing.NewCleaner(logger, marker),
		metrics:   metrics,
		logger:    logger,
	}
}

// Validate requires a dataset
func (s *CleaningStage) Validate(state *OperationState) error {
	if state.Dataset() == nil {
		return ErrMissingDataset
	}
	return nil
}

// Execute filters the raw records and stores the survivors
func (s *CleaningStage) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cleaned, stats := s.cleaner.Clean(state.RawRecords())
	if cleaned == nil {
		cleaned = []domain.CleanedRecord{}
	}
	state.SetCleaned(cleaned)
	state.UpdateResults(func(r *domain.AnalyticsResults) { r.Cleaning = &stats })
	state.GetStage(s.ID()).SetRows(stats.KeptRows)

	for reason, n := range dataprocessing.DropCounts(stats) {
		s.metrics.RecordDropped(ctx, reason, n)
	}
	return nil
}

// AggregateStage computes one metric table from the cleaned dataset
type AggregateStage struct {
	BaseStage
	aggregator analytics.Aggregator
	options    analytics.Options
}

// NewAggregateStage wraps an aggregator as a Step depending on cleaning
func NewAggregateStage(agg analytics.Aggregator, opts analytics.Options) *AggregateStage {
	return &AggregateStage{
		BaseStage:  NewBaseStage(agg.Report, agg.Description, []string{StageIDCleaning}),
		aggregator: agg,
		options:    opts,
	}
}

// Validate requires the cleaned dataset
func (s *AggregateStage) Validate(state *OperationState) error {
	if _, ok := state.Cleaned(); !ok {
		return fmt.Errorf("cleaned dataset not available")
	}
	return nil
}

// Execute runs the aggregator and stores its table
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, _ := state.Cleaned()
	result := s.aggregator.Compute(records, s.options)
	state.UpdateResults(result.ApplyTo)
	state.GetStage(s.ID()).SetRows(result.Rows)
	return nil
}

// NewPipelineRegistry registers exploration, cleaning and every aggregator
func NewPipelineRegistry(logger *slog.Logger, marker string, opts analytics.Options, metrics *infrastructure.PipelineMetrics) (*Registry, error) {
	registry := NewRegistry()

	steps := []Step{
		NewExplorationStage(logger, marker),
		NewCleaningStage(logger, marker, metrics),
	}
	for _, agg := range analytics.Aggregators() {
		steps = append(steps, NewAggregateStage(agg, opts))
	}

	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	if err := registry.ValidateDependencies(); err != nil {
		return nil, err
	}
	return registry, nil
}
