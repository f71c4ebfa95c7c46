package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

// Console prints the cross-suite summary of a run.
type Console struct {
	out     io.Writer
	verbose bool
}

func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{out: out, verbose: verbose}
}

// Print writes one row per suite, the failed cases and the aggregate line.
func (c *Console) Print(meta Meta, summaries []harness.Summary) Totals {
	totals := Aggregate(summaries)

	fmt.Fprintln(c.out)
	if len(summaries) > 1 || c.verbose {
		c.printTable(summaries)
	}
	c.printFailures(summaries)

	failed := fmt.Sprintf("Failed: %d", totals.Failed)
	if totals.Failed > 0 {
		failed = color.New(color.FgRed, color.Bold).Sprint(failed)
	}
	passed := fmt.Sprintf("Passed: %d", totals.Passed)
	if totals.Failed == 0 && totals.Passed > 0 {
		passed = color.GreenString(passed)
	}
	fmt.Fprintf(c.out, "%s, %s, Skipped: %d\n", passed, failed, totals.Skipped)

	if c.verbose && meta.RunID != "" {
		fmt.Fprintf(c.out, "run %s (%s) finished in %s\n", meta.RunID, meta.Mode, meta.Duration.Round(time.Millisecond))
	}
	return totals
}

func (c *Console) printTable(summaries []harness.Summary) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUITE\tPASSED\tFAILED\tSKIPPED\tCLEANUP ERRORS\tDURATION")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			s.Suite, s.Passed, s.Failed, s.Skipped, s.CleanupErrors, s.Duration.Round(time.Millisecond))
	}
	_ = w.Flush()
	fmt.Fprintln(c.out)
}

func (c *Console) printFailures(summaries []harness.Summary) {
	header := false
	for _, s := range summaries {
		for _, tc := range s.Cases {
			if tc.Outcome != harness.OutcomeFailed {
				continue
			}
			if !header {
				fmt.Fprintln(c.out, color.New(color.Bold).Sprint("Failures:"))
				header = true
			}
			fmt.Fprintf(c.out, "  %s %s / %s: %s\n", color.RedString("✗"), s.Suite, tc.Name, tc.Message)
		}
	}
	if header {
		fmt.Fprintln(c.out)
	}
}
