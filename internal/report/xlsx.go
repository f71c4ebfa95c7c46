package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

const (
	resultsSheet = "Results"
	timeLayout   = "2006-01-02 15:04:05"

	failedFill  = "FF5900"
	skippedFill = "FFEB9C"
)

var xlsxHeaders = []string{"Suite", "Group", "Test", "Outcome", "Message", "Started", "Duration (ms)"}

var xlsxWidths = []float64{22, 26, 48, 10, 80, 20, 14}

// WriteXLSX writes one row per test case followed by a summary block to
// path, replacing any existing file. Failed rows are red, skipped rows
// yellow.
func WriteXLSX(path string, meta Meta, summaries []harness.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	failedStyle, err := fillStyle(f, failedFill)
	if err != nil {
		return err
	}
	skippedStyle, err := fillStyle(f, skippedFill)
	if err != nil {
		return err
	}

	for i, header := range xlsxHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(resultsSheet, col, col, xlsxWidths[i]); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeaders))
	if err := f.SetCellStyle(resultsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, s := range summaries {
		for _, tc := range s.Cases {
			values := []any{
				s.Suite,
				tc.Group,
				tc.Name,
				string(tc.Outcome),
				tc.Message,
				formatTime(tc.StartedAt),
				tc.Duration.Milliseconds(),
			}
			first, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(resultsSheet, first, &values); err != nil {
				return err
			}

			style := 0
			switch tc.Outcome {
			case harness.OutcomeFailed:
				style = failedStyle
			case harness.OutcomeSkipped:
				style = skippedStyle
			}
			if style != 0 {
				last, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), row)
				if err := f.SetCellStyle(resultsSheet, first, last, style); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := writeSummary(f, row+1, meta, Aggregate(summaries)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}

	zap.S().Named("report").Infow("xlsx report written", "path", path, "rows", row-2)
	return nil
}

func writeSummary(f *excelize.File, start int, meta Meta, totals Totals) error {
	lines := [][]any{
		{"Summary"},
		{"Run", meta.RunID},
		{"Mode", meta.Mode},
		{"Target", meta.Target},
		{"Started", formatTime(meta.StartedAt)},
		{"Duration (ms)", meta.Duration.Milliseconds()},
		{"Suites", totals.Suites},
		{"Passed", totals.Passed},
		{"Failed", totals.Failed},
		{"Skipped", totals.Skipped},
		{"Cleanup errors", totals.CleanupErrors},
	}
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, start+i)
		if err := f.SetSheetRow(resultsSheet, cell, &line); err != nil {
			return err
		}
	}
	return nil
}

func fillStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
