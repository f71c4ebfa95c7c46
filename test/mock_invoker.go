package test

import (
	"context"
	"slices"
	"sync"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

// MockInvoker implements invoke.Invoker with scripted results.
type MockInvoker struct {
	mu    sync.Mutex
	stubs []*Stub
	calls [][]string
	// Default is returned when no stub matches.
	Default invoke.Result
}

// Stub answers commands starting with a prefix. Results are handed out in
// order and the last one repeats.
type Stub struct {
	mock    *MockInvoker
	prefix  []string
	results []invoke.Result
	served  int
}

// NewMockInvoker creates a MockInvoker that fails every unscripted command.
func NewMockInvoker() *MockInvoker {
	return &MockInvoker{Default: Failure(1, "Error: unscripted command")}
}

// When scripts commands starting with prefix. Later stubs take precedence.
func (m *MockInvoker) When(prefix ...string) *Stub {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Stub{mock: m, prefix: prefix}
	m.stubs = append(m.stubs, s)
	return s
}

func (s *Stub) Return(results ...invoke.Result) *MockInvoker {
	s.mock.mu.Lock()
	defer s.mock.mu.Unlock()

	s.results = append(s.results, results...)
	return s.mock
}

func (m *MockInvoker) Run(ctx context.Context, args ...string) invoke.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]string(nil), args...))

	res := m.Default
	for i := len(m.stubs) - 1; i >= 0; i-- {
		s := m.stubs[i]
		if len(s.results) == 0 || len(args) < len(s.prefix) || !slices.Equal(args[:len(s.prefix)], s.prefix) {
			continue
		}
		res = s.results[min(s.served, len(s.results)-1)]
		s.served++
		break
	}
	res.Args = args
	return res
}

func (m *MockInvoker) JSON(ctx context.Context, args ...string) invoke.Result {
	if !slices.Contains(args, "--json") {
		args = append(slices.Clone(args), "--json")
	}
	return m.Run(ctx, args...)
}

// Calls returns every command received so far.
func (m *MockInvoker) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.calls)
}

// CallsWith returns the commands starting with prefix.
func (m *MockInvoker) CallsWith(prefix ...string) [][]string {
	var out [][]string
	for _, c := range m.Calls() {
		if len(c) >= len(prefix) && slices.Equal(c[:len(prefix)], prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Success is a zero exit with stdout.
func Success(stdout string) invoke.Result {
	return invoke.Result{Stdout: stdout}
}

// Failure is a non-zero exit with stderr.
func Failure(exitCode int, stderr string) invoke.Result {
	return invoke.Result{ExitCode: exitCode, Stderr: stderr}
}

// APIFailure is a failure carrying an HTTP status, as APIInvoker reports it.
func APIFailure(status int, stderr string) invoke.Result {
	return invoke.Result{ExitCode: 1, StatusCode: status, Stderr: stderr}
}

var _ invoke.Invoker = (*MockInvoker)(nil)
