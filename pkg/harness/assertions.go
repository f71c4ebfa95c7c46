package harness

import (
	"fmt"
	"strings"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

const excerptLen = 200

// Every assertion resolves the open test case and returns whether it passed.

func (h *Harness) AssertSuccess(res invoke.Result) bool {
	if res.Success() {
		h.Pass()
		return true
	}
	h.Failf("expected success, got exit %d: %s", res.ExitCode, res.Excerpt(excerptLen))
	return false
}

func (h *Harness) AssertFailure(res invoke.Result) bool {
	if !res.Success() {
		h.Pass()
		return true
	}
	h.Fail("expected failure, command succeeded")
	return false
}

// AssertFailureContains passes on a failure whose output contains any of substrings.
func (h *Harness) AssertFailureContains(res invoke.Result, substrings ...string) bool {
	if res.Success() {
		h.Fail("expected failure, command succeeded")
		return false
	}
	if len(substrings) == 0 || invoke.MatchesAny(res.Output(), substrings) {
		h.Pass()
		return true
	}
	h.Failf("expected failure containing %s, got exit %d: %s", quoteAll(substrings), res.ExitCode, res.Excerpt(excerptLen))
	return false
}

// AssertSuccessOrSkip passes on success and skips a tolerated failure.
func (h *Harness) AssertSuccessOrSkip(res invoke.Result, tolerated ...string) bool {
	if res.Success() {
		h.Pass()
		return true
	}
	if h.SkipIfTolerated(res, tolerated...) {
		return false
	}
	h.Failf("expected success, got exit %d: %s", res.ExitCode, res.Excerpt(excerptLen))
	return false
}

// SkipIfTolerated skips the open case when res failed in a tolerated way.
// It records nothing otherwise.
func (h *Harness) SkipIfTolerated(res invoke.Result, tolerated ...string) bool {
	if res.Success() {
		return false
	}
	category, ok := h.tolerations.Tolerated(res, tolerated...)
	if !ok {
		return false
	}
	h.Skip(fmt.Sprintf("tolerated %s failure: %s", category, res.Excerpt(excerptLen)))
	return true
}

// AssertJSON requires a successful command with JSON output satisfying
// every matcher. The first mismatch is the failure message.
func (h *Harness) AssertJSON(res invoke.Result, matchers ...Matcher) bool {
	if !res.Success() {
		h.Failf("command failed (exit %d): %s", res.ExitCode, res.Excerpt(excerptLen))
		return false
	}
	doc, err := res.JSON()
	if err != nil {
		h.Failf("invalid JSON output: %v", err)
		return false
	}
	for _, m := range matchers {
		if err := m(doc); err != nil {
			h.Fail(err.Error())
			return false
		}
	}
	h.Pass()
	return true
}

func (h *Harness) AssertJSONIsArray(res invoke.Result) bool {
	return h.AssertJSON(res, IsArray())
}

func (h *Harness) AssertJSONIsObject(res invoke.Result) bool {
	return h.AssertJSON(res, IsObject())
}

func (h *Harness) AssertJSONHas(res invoke.Result, path string) bool {
	return h.AssertJSON(res, Has(path))
}

func (h *Harness) AssertJSONEquals(res invoke.Result, path, expected string) bool {
	return h.AssertJSON(res, Equals(path, expected))
}

func (h *Harness) AssertJSONBool(res invoke.Result, path string, expected bool) bool {
	return h.AssertJSON(res, Bool(path, expected))
}

func (h *Harness) AssertJSONLength(res invoke.Result, path string, n int) bool {
	return h.AssertJSON(res, Length(path, n))
}

func (h *Harness) AssertJSONLengthAtMost(res invoke.Result, n int) bool {
	return h.AssertJSON(res, IsArray(), LengthAtMost(n))
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, " or ")
}
