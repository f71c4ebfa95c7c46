package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Summary is the outcome of a suite.
type Summary struct {
	Suite         string
	Passed        int
	Failed        int
	Skipped       int
	Cases         []TestCase
	CleanupErrors int
	StartedAt     time.Time
	Duration      time.Duration
}

func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// ExitCode is 0 when nothing failed and 1 otherwise. Skips and cleanup
// errors do not count.
func (s Summary) ExitCode() int {
	if s.Failed > 0 {
		return 1
	}
	return 0
}

// Run finishes the suite: it resolves the open case, prints the summary and
// deletes every registered record. Calling it again returns the same
// summary without deleting anything.
func (h *Harness) Run(ctx context.Context) Summary {
	h.runMu.Lock()
	defer h.runMu.Unlock()

	h.mu.Lock()
	if h.summary != nil {
		s := *h.summary
		h.mu.Unlock()
		return s
	}
	h.resolvePending()
	h.current = nil

	s := Summary{
		Suite:     h.name,
		Cases:     append([]TestCase(nil), h.cases...),
		StartedAt: h.started,
	}
	for _, c := range h.cases {
		switch c.Outcome {
		case OutcomePassed:
			s.Passed++
		case OutcomeFailed:
			s.Failed++
		case OutcomeSkipped:
			s.Skipped++
		}
	}
	h.printSummary(s)
	h.mu.Unlock()

	s.CleanupErrors = h.runCleanup(ctx)
	if s.CleanupErrors > 0 {
		fmt.Fprintf(h.out, "%s %d cleanup deletion(s) failed\n", color.YellowString("!"), s.CleanupErrors)
	}
	s.Duration = h.now().Sub(h.started)

	zap.S().Named("harness").Infow("suite finished", "suite", s.Suite, "passed", s.Passed, "failed", s.Failed, "skipped", s.Skipped, "cleanup_errors", s.CleanupErrors, "duration", s.Duration)

	h.mu.Lock()
	h.summary = &s
	h.mu.Unlock()
	return s
}

func (h *Harness) printSummary(s Summary) {
	failed := fmt.Sprintf("Failed: %d", s.Failed)
	if s.Failed > 0 {
		failed = color.RedString(failed)
	}
	fmt.Fprintf(h.out, "\n%s: Passed: %d, %s, Skipped: %d\n", s.Suite, s.Passed, failed, s.Skipped)
}
