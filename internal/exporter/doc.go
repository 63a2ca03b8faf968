// Package exporter renders analytics results as tables and writes them to
// disk.
//
// Tables converts an AnalyticsResults value into one Table per computed
// report. Money is formatted with two decimals and undefined ratios as
// "undefined". The writers then persist those tables:
//
// CSVWriter writes one <report>.csv per table, optionally prefixed with a
// UTF-8 BOM so Excel detects the encoding.
//
// ExcelWriter writes a single workbook with one sheet per table. Header
// rows are bold and numeric columns are stored as numbers.
//
// JSONWriter writes the whole result set as one document. Undefined ratios
// are encoded as null.
//
// Exporter drives the writers for each configured format:
//
//	exp := exporter.New(cfg.Output, metrics, logger)
//	paths, err := exp.Export(ctx, "reports/run", resp.Results)
package exporter
