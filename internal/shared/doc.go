// Package shared holds helpers used across the molidata codebase that do
// not belong to a single pipeline stage.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records for assertions
//   - Workbook fixtures that write small billing and geographic .xlsx inputs
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    billing, geo := testutil.WriteInputWorkbooks(t, t.TempDir())
//	    // run code under test with logger, then
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
