// Package app wires the analyzer components together and drives one run.
//
// # Initialization Flow
//
// NewApplication builds, in order:
//
//	1. OpenTelemetry providers and the operation tracer
//	2. Runtime metrics
//	3. The step registry and the pipeline manager
//	4. The file exporter
//	5. The SQL connection, when storage is enabled
//
// A failure at any point releases whatever was already created.
//
// # Usage
//
//	application, err := app.NewApplication(ctx, cfg, paths, logger, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	defer application.Stop(ctx)
//
//	result, err := application.Run(ctx)
//
// Run loads the dataset, executes the pipeline, exports the result tables
// and, with storage enabled, stores them in the database. Artifacts are
// only written when every step completed.
//
// # Error Handling
//
// Errors are returned to the caller. The package never calls os.Exit, so
// the command controls the exit code.
package app
