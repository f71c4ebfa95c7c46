package harness

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

const noAssertion = "no assertion recorded"

// TestCase is one named check and its outcome.
type TestCase struct {
	Group     string
	Name      string
	Outcome   Outcome
	Message   string
	StartedAt time.Time
	Duration  time.Duration
}

// Harness records test outcomes for one suite and owns its cleanup list.
// A suite drives it from a single goroutine; the lock only guards against
// reads from a reporter while the suite is still running.
type Harness struct {
	name        string
	inv         invoke.Invoker
	out         io.Writer
	tolerations invoke.Tolerations
	maxTries    uint
	newBackOff  func() backoff.BackOff
	now         func() time.Time
	failFast    bool

	runMu    sync.Mutex
	mu       sync.Mutex
	group    string
	current  *TestCase
	cases    []TestCase
	cleanups []Cleanup
	started  time.Time
	summary  *Summary
}

type Option func(*Harness)

func WithOutput(w io.Writer) Option {
	return func(h *Harness) {
		h.out = w
	}
}

func WithTolerations(t invoke.Tolerations) Option {
	return func(h *Harness) {
		h.tolerations = t
	}
}

// WithRetryPolicy sets the attempts used by Eventually and RetryTransient.
func WithRetryPolicy(maxTries uint) Option {
	return func(h *Harness) {
		if maxTries > 0 {
			h.maxTries = maxTries
		}
	}
}

func WithBackOff(fn func() backoff.BackOff) Option {
	return func(h *Harness) {
		h.newBackOff = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		h.now = now
	}
}

// WithFailFast makes Stopped report true after the first failure.
func WithFailFast(failFast bool) Option {
	return func(h *Harness) {
		h.failFast = failFast
	}
}

func New(name string, inv invoke.Invoker, opts ...Option) *Harness {
	h := &Harness{
		name:        name,
		inv:         inv,
		out:         os.Stdout,
		tolerations: invoke.DefaultTolerations(),
		maxTries:    3,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
		now: time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	h.started = h.now()
	return h
}

func (h *Harness) Name() string {
	return h.name
}

func (h *Harness) Invoker() invoke.Invoker {
	return h.inv
}

func (h *Harness) Tolerations() invoke.Tolerations {
	return h.tolerations
}

// Describe sets the group label of the following test cases.
func (h *Harness) Describe(group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resolvePending()
	h.current = nil
	h.group = group
	color.New(color.Bold).Fprintf(h.out, "\n%s\n", group)
}

// Test opens a new test case. A previous case left without an outcome is
// failed.
func (h *Harness) Test(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resolvePending()
	h.current = &TestCase{
		Group:     h.group,
		Name:      name,
		Outcome:   OutcomePending,
		StartedAt: h.now(),
	}
}

func (h *Harness) Pass() {
	h.record(OutcomePassed, "")
}

func (h *Harness) Fail(msg string) {
	h.record(OutcomeFailed, msg)
}

func (h *Harness) Failf(format string, args ...any) {
	h.record(OutcomeFailed, fmt.Sprintf(format, args...))
}

func (h *Harness) Skip(reason string) {
	h.record(OutcomeSkipped, reason)
}

// Stopped reports whether fail-fast is on and a case has failed.
func (h *Harness) Stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.failFast {
		return false
	}
	for _, c := range h.cases {
		if c.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Cases returns a copy of the resolved test cases.
func (h *Harness) Cases() []TestCase {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]TestCase(nil), h.cases...)
}

// record resolves the open case. The first outcome wins.
func (h *Harness) record(outcome Outcome, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		h.current = &TestCase{Group: h.group, Name: h.implicitName(), Outcome: OutcomePending, StartedAt: h.now()}
	}
	if h.current.Outcome != OutcomePending {
		zap.S().Named("harness").Warnw("outcome already recorded, ignoring", "suite", h.name, "test", h.current.Name, "ignored", outcome)
		return
	}

	c := h.current
	c.Outcome = outcome
	c.Message = msg
	c.Duration = h.now().Sub(c.StartedAt)
	h.cases = append(h.cases, *c)
	h.print(*c)
}

func (h *Harness) implicitName() string {
	if h.group != "" {
		return h.group
	}
	return h.name
}

func (h *Harness) resolvePending() {
	if h.current == nil || h.current.Outcome != OutcomePending {
		return
	}
	c := h.current
	c.Outcome = OutcomeFailed
	c.Message = noAssertion
	c.Duration = h.now().Sub(c.StartedAt)
	h.cases = append(h.cases, *c)
	h.print(*c)
	h.current = nil
}

func (h *Harness) print(c TestCase) {
	switch c.Outcome {
	case OutcomePassed:
		fmt.Fprintf(h.out, "  %s %s\n", color.GreenString("✓ PASS"), c.Name)
	case OutcomeFailed:
		fmt.Fprintf(h.out, "  %s %s: %s\n", color.RedString("✗ FAIL"), c.Name, c.Message)
	case OutcomeSkipped:
		if c.Message == "" {
			fmt.Fprintf(h.out, "  %s %s\n", color.YellowString("- SKIP"), c.Name)
			return
		}
		fmt.Fprintf(h.out, "  %s %s: %s\n", color.YellowString("- SKIP"), c.Name, c.Message)
	}
}
