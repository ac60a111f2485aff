// Package shared holds code used across packages that belongs to no single
// layer.
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on log records
//	- CSV and xlsx fixture builders for claim, claim ratio and benefit exports
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.TemplateClaimsCSV(t, testutil.TemplateClaim("C1", nil))
//	    ...
//	    testutil.AssertLogContains(t, logs, "pipeline run completed")
//	}
package shared
