// Package report renders the outcome of a run.
//
// Console prints a per-suite table (when more than one suite ran), the
// failed cases and the aggregate line
//
//	Passed: N, Failed: N, Skipped: N
//
// WriteXLSX exports every test case to a workbook: one row per case on the
// "Results" sheet, failed rows filled red, skipped rows yellow, and a
// summary block below the last row.
package report
