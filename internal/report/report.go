package report

import (
	"time"

	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

// Meta describes the run a report belongs to.
type Meta struct {
	RunID     string
	Mode      string
	Target    string
	StartedAt time.Time
	Duration  time.Duration
}

// Totals aggregates the counters of several suites.
type Totals struct {
	Suites        int
	Passed        int
	Failed        int
	Skipped       int
	CleanupErrors int
}

func Aggregate(summaries []harness.Summary) Totals {
	t := Totals{Suites: len(summaries)}
	for _, s := range summaries {
		t.Passed += s.Passed
		t.Failed += s.Failed
		t.Skipped += s.Skipped
		t.CleanupErrors += s.CleanupErrors
	}
	return t
}

func (t Totals) Total() int {
	return t.Passed + t.Failed + t.Skipped
}

// ExitCode is 0 iff no test failed.
func (t Totals) ExitCode() int {
	if t.Failed > 0 {
		return 1
	}
	return 0
}
