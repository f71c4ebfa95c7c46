package models

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	// RunStatusAborted is a run cancelled before every suite finished.
	RunStatusAborted RunStatus = "aborted"
)

func ParseRunStatus(s string) (RunStatus, error) {
	switch s {
	case "running":
		return RunStatusRunning, nil
	case "passed":
		return RunStatusPassed, nil
	case "failed":
		return RunStatusFailed, nil
	case "aborted":
		return RunStatusAborted, nil
	default:
		return "", fmt.Errorf("invalid run status: %s", s)
	}
}

// Run is one invocation of the runner.
type Run struct {
	ID         string     `json:"id"`
	Mode       string     `json:"mode"`
	Target     string     `json:"target"`
	Suites     []string   `json:"suites"`
	Status     RunStatus  `json:"status"`
	Passed     int        `json:"passed"`
	Failed     int        `json:"failed"`
	Skipped    int        `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (r Run) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// TestRecord is one test case outcome of a run.
type TestRecord struct {
	RunID      string    `json:"run_id"`
	Suite      string    `json:"suite"`
	Group      string    `json:"group,omitempty"`
	Name       string    `json:"name"`
	Outcome    string    `json:"outcome"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}
