// Package operations runs the analytics pipeline: exploration, cleaning and
// the metric aggregators, as steps with declared dependencies.
//
// Core Components:
//
// Manager: orchestrates a run. It resolves the steps needed for the requested
// reports, executes them in dependency order and returns the result tables.
//
// Step: a single unit of work. Steps read their input from and write their
// output to the OperationState of the run.
//
// Registry: keeps steps in registration order and groups them into dependency
// levels. Steps in the same level are independent.
//
// Config: execution mode, concurrency bound and timeouts.
//
// In sequential mode steps run one at a time. In parallel mode the steps of a
// level run concurrently under an errgroup bounded by MaxConcurrency; both
// modes produce identical tables. The first failing step fails the run and
// every step that has not started is marked skipped.
//
// Example usage:
//
//	registry, err := operations.NewPipelineRegistry(logger, "C", analytics.DefaultOptions(), nil)
//	if err != nil {
//		return err
//	}
//	cfg := operations.NewConfigBuilder().
//		WithExecutionMode(operations.ExecutionModeParallel).
//		WithMaxConcurrency(4).
//		Build()
//	manager := operations.NewManager(registry, cfg, nil, logger)
//	resp, err := manager.Execute(ctx, operations.OperationRequest{Dataset: dataset})
package operations
