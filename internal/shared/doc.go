// Package shared holds helpers used across the analyzer's packages that
// belong to no single stage.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- BufferedSlogHandler, a slog.Handler capturing records for assertions
//	- Transaction fixtures (Raw, Line, SampleRawRecords, WriteRetailCSV)
//
// Example usage:
//
//	func TestCleaner(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    cleaned, _ := dataprocessing.NewCleaner(logger, "C").Clean(testutil.SampleRawRecords())
//	    testutil.AssertNoErrors(t, handler)
//	}
//
// Nothing in this package is imported by production code.
package shared
