// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides fixture writers for CSV inputs and a
// buffered slog handler for asserting on log output:
//
//	logger, handler := testutil.NewTestLogger(t)
//	path := testutil.WriteFixture(t, t.TempDir(), "in.csv", testutil.SampleCSV)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Columns without any values left missing")
//
// Nothing here may import application packages.
package shared
