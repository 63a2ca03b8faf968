// Package dataprocessing turns an external transaction table into the
// cleaned line items every metric is computed from.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads CSV or XLSX files into a domain.Dataset of RawRecords
// 2. Explorer: reports row counts, nulls, cancellations and distinct values
// 3. Cleaner: drops cancelled, non-positive and anonymous lines and computes line totals
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger, dataprocessing.ParserOptions{})
//	ds, err := parser.ParseFile(ctx, "data/online_retail.csv", "auto")
//	if err != nil {
//	    return err
//	}
//
//	report := dataprocessing.NewExplorer(logger, "C").Explore(ds.Records)
//	cleaned, stats := dataprocessing.NewCleaner(logger, "C").Clean(ds.Records)
//
// # Data Flow
//
//	File → Parser → RawRecords → Explorer (report only)
//	                           → Cleaner → CleanedRecords → analytics
//
// # Error Handling
//
// Parsing failures are fatal. Unparseable numbers or timestamps yield a
// PARSING AppError naming the row and column; records missing a required
// field yield a VALIDATION AppError. Records failing a business rule are
// never errors: the Cleaner drops them and counts them in CleaningStats.
package dataprocessing
