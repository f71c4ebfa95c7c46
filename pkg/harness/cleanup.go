package harness

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

// Cleanup is a record to delete when the suite finishes.
type Cleanup struct {
	ResourceType string
	ID           string
}

// RegisterCleanup schedules a delete of the record. Empty ids are ignored
// and a pair is only registered once.
func (h *Harness) RegisterCleanup(resourceType, id string) {
	if resourceType == "" || id == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.cleanups {
		if c.ResourceType == resourceType && c.ID == id {
			return
		}
	}
	h.cleanups = append(h.cleanups, Cleanup{ResourceType: resourceType, ID: id})
}

// ForgetCleanup drops a registration, typically after the test deleted the
// record itself.
func (h *Harness) ForgetCleanup(resourceType, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, c := range h.cleanups {
		if c.ResourceType == resourceType && c.ID == id {
			h.cleanups = append(h.cleanups[:i], h.cleanups[i+1:]...)
			return
		}
	}
}

func (h *Harness) Cleanups() []Cleanup {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]Cleanup(nil), h.cleanups...)
}

// runCleanup deletes every registered record, newest first, and returns the
// number of deletes that failed. Records already gone count as cleaned.
func (h *Harness) runCleanup(ctx context.Context) int {
	log := zap.S().Named("harness")

	h.mu.Lock()
	pending := h.cleanups
	h.cleanups = nil
	h.mu.Unlock()

	// Cleanup must still run after the suite's context is cancelled.
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for i := len(pending) - 1; i >= 0; i-- {
		c := pending[i]
		res := h.inv.Run(ctx, "do", c.ResourceType, "delete", c.ID, "--confirm")
		switch {
		case res.Success():
			log.Debugw("cleaned up", "suite", h.name, "resource", c.ResourceType, "id", c.ID)
		case alreadyGone(res):
			log.Debugw("already deleted", "suite", h.name, "resource", c.ResourceType, "id", c.ID)
		default:
			failed++
			log.Warnw("cleanup failed", "suite", h.name, "resource", c.ResourceType, "id", c.ID, "exit_code", res.ExitCode, "output", res.Excerpt(excerptLen))
		}
	}
	return failed
}

func alreadyGone(res invoke.Result) bool {
	if res.StatusCode == http.StatusNotFound {
		return true
	}
	if invoke.StatusFromOutput(res.Output()) == http.StatusNotFound {
		return true
	}
	return strings.Contains(strings.ToLower(res.Output()), "not found")
}
