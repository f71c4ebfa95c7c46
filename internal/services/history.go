package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/models"
	"github.com/xbe-inc/xbe-integration/internal/store"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
)

// HistoryService records runs and their test outcomes.
type HistoryService struct {
	store *store.Store
	now   func() time.Time
}

// HistoryFilter selects runs for List. Zero values select everything.
type HistoryFilter struct {
	Status []models.RunStatus
	Suites []string
	Mode   string
	Limit  uint64
	Offset uint64
}

func NewHistoryService(st *store.Store) *HistoryService {
	return &HistoryService{store: st, now: time.Now}
}

// StartRun stores a new running run and returns it.
func (h *HistoryService) StartRun(ctx context.Context, mode, target string, suites []string) (*models.Run, error) {
	run := models.Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		Target:    target,
		Suites:    suites,
		Status:    models.RunStatusRunning,
		StartedAt: h.now().UTC(),
	}

	if err := h.store.Runs().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	zap.S().Named("history").Debugw("run started", "run_id", run.ID, "mode", mode, "suites", suites)
	return &run, nil
}

// FinishRun saves every test case of the summaries and closes the run.
// A run is aborted when ctx was cancelled before all suites finished,
// failed when any case failed and passed otherwise.
func (h *HistoryService) FinishRun(ctx context.Context, run *models.Run, summaries []harness.Summary, aborted bool) error {
	var records []models.TestRecord
	run.Passed, run.Failed, run.Skipped = 0, 0, 0
	for _, s := range summaries {
		run.Passed += s.Passed
		run.Failed += s.Failed
		run.Skipped += s.Skipped
		for _, c := range s.Cases {
			records = append(records, models.TestRecord{
				RunID:      run.ID,
				Suite:      s.Suite,
				Group:      c.Group,
				Name:       c.Name,
				Outcome:    string(c.Outcome),
				Message:    c.Message,
				StartedAt:  c.StartedAt,
				DurationMs: c.Duration.Milliseconds(),
			})
		}
	}

	switch {
	case aborted:
		run.Status = models.RunStatusAborted
	case run.Failed > 0:
		run.Status = models.RunStatusFailed
	default:
		run.Status = models.RunStatusPassed
	}
	finished := h.now().UTC()
	run.FinishedAt = &finished

	// results outlive a cancelled run context
	ctx = context.WithoutCancel(ctx)
	if err := h.store.Results().Save(ctx, records...); err != nil {
		return fmt.Errorf("failed to save results of run %s: %w", run.ID, err)
	}
	if err := h.store.Runs().Finish(ctx, *run); err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}

	zap.S().Named("history").Infow("run recorded", "run_id", run.ID, "status", run.Status, "passed", run.Passed, "failed", run.Failed, "skipped", run.Skipped)
	return nil
}

func (h *HistoryService) List(ctx context.Context, filter HistoryFilter) ([]models.Run, error) {
	opts := []store.ListOption{
		store.ByStatus(filter.Status...),
		store.BySuite(filter.Suites...),
		store.ByMode(filter.Mode),
		store.WithDefaultSort(),
	}
	if filter.Limit > 0 {
		opts = append(opts, store.WithLimit(filter.Limit))
	}
	if filter.Offset > 0 {
		opts = append(opts, store.WithOffset(filter.Offset))
	}
	return h.store.Runs().List(ctx, opts...)
}

// Get returns a run with its test records in execution order.
func (h *HistoryService) Get(ctx context.Context, id string) (*models.Run, []models.TestRecord, error) {
	run, err := h.store.Runs().Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	records, err := h.store.Results().ListByRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, records, nil
}
