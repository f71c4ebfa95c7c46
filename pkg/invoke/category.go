package invoke

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Category classifies a failed invocation.
type Category string

const (
	CategorySuccess Category = "success"
	// CategoryUsage is a malformed command: bad flag, missing argument.
	CategoryUsage Category = "usage"
	// CategoryPolicy is a refusal by the service: permissions, validation, conflicts.
	CategoryPolicy Category = "policy"
	// CategoryTransient is an outage a retry may fix.
	CategoryTransient Category = "transient"
	// CategoryDefect is anything else.
	CategoryDefect Category = "defect"
)

// Tolerations are the substrings that classify a failure when no HTTP status
// is available, which is always the case in cli mode.
type Tolerations struct {
	Usage     []string `yaml:"usage,omitempty"`
	Policy    []string `yaml:"policy,omitempty"`
	Transient []string `yaml:"transient,omitempty"`
}

func DefaultTolerations() Tolerations {
	return Tolerations{
		Usage: []string{
			"required flag",
			"unknown flag",
			"unknown command",
			"unknown shorthand flag",
			"invalid argument",
			"accepts 1 arg",
			"no fields to update",
			"--confirm",
			"expected Type|ID",
		},
		Policy: []string{
			"Not Authorized",
			"Forbidden",
			"Record Invalid",
			"Unprocessable",
			"is not permitted",
			"has already been taken",
		},
		Transient: []string{
			"Service Unavailable",
			"Bad Gateway",
			"Gateway Timeout",
			"connection refused",
			"connection reset",
			"i/o timeout",
			"timed out",
		},
	}
}

// Merge appends the patterns of other to a copy of t.
func (t Tolerations) Merge(other Tolerations) Tolerations {
	return Tolerations{
		Usage:     append(append([]string{}, t.Usage...), other.Usage...),
		Policy:    append(append([]string{}, t.Policy...), other.Policy...),
		Transient: append(append([]string{}, t.Transient...), other.Transient...),
	}
}

// Classify prefers the HTTP status when known, then a status printed with
// its reason phrase ("503 Service Unavailable"), and falls back to patterns.
func (t Tolerations) Classify(r Result) Category {
	if r.Success() {
		return CategorySuccess
	}

	out := r.Output()
	status := r.StatusCode
	if status == 0 {
		status = StatusFromOutput(out)
	}
	if status != 0 {
		return statusCategory(status)
	}

	switch {
	case MatchesAny(out, t.Usage):
		return CategoryUsage
	case MatchesAny(out, t.Policy):
		return CategoryPolicy
	case MatchesAny(out, t.Transient):
		return CategoryTransient
	default:
		return CategoryDefect
	}
}

func statusCategory(status int) Category {
	switch status {
	case http.StatusBadRequest:
		return CategoryUsage
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict, http.StatusUnprocessableEntity:
		return CategoryPolicy
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CategoryTransient
	default:
		return CategoryDefect
	}
}

// statusLine matches three digits standing alone followed by capitalized words.
var statusLine = regexp.MustCompile(`(?:^|[^0-9])([1-5][0-9]{2}) ([A-Z][A-Za-z-]*(?: [A-Z][A-Za-z-]*)*)`)

// StatusFromOutput returns the first HTTP status of out written with its
// reason phrase, as in "Error: 422 Unprocessable Entity", or 0. Bare numbers
// such as record ids never count.
func StatusFromOutput(out string) int {
	for _, m := range statusLine.FindAllStringSubmatch(out, -1) {
		code, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if text := http.StatusText(code); text != "" && strings.HasPrefix(m[2], text) {
			return code
		}
	}
	return 0
}

// Tolerated reports whether a failure should be recorded as a skip rather
// than a failure: policy refusals, outages, or output matching extra.
func (t Tolerations) Tolerated(r Result, extra ...string) (Category, bool) {
	c := t.Classify(r)
	switch c {
	case CategorySuccess:
		return c, false
	case CategoryPolicy, CategoryTransient:
		return c, true
	}
	if MatchesAny(r.Output(), extra) {
		return c, true
	}
	return c, false
}

func MatchesAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
