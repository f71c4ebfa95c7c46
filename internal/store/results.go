package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/xbe-inc/xbe-integration/internal/models"
)

type ResultStore struct {
	db QueryInterceptor
}

func NewResultStore(db QueryInterceptor) *ResultStore {
	return &ResultStore{db: db}
}

// Save appends test records to their runs in one statement. Records keep
// their slice order when listed.
func (s *ResultStore) Save(ctx context.Context, records ...models.TestRecord) error {
	if len(records) == 0 {
		return nil
	}

	next := make(map[string]int)
	builder := sq.Insert("test_results").Columns(
		"run_id", "seq", "suite", "group_name", "name",
		"outcome", "message", "started_at", "duration_ms",
	)
	for _, r := range records {
		seq, ok := next[r.RunID]
		if !ok {
			if err := s.db.QueryRowContext(ctx, queryNextResultSeq, r.RunID).Scan(&seq); err != nil {
				return err
			}
		}
		seq++
		next[r.RunID] = seq

		builder = builder.Values(
			r.RunID, seq, r.Suite, r.Group, r.Name,
			r.Outcome, r.Message, r.StartedAt.UTC(), r.DurationMs,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *ResultStore) ListByRun(ctx context.Context, runID string, opts ...ListOption) ([]models.TestRecord, error) {
	builder := sq.Select(
		"test_results.run_id",
		"test_results.suite",
		"test_results.group_name",
		"test_results.name",
		"test_results.outcome",
		"test_results.message",
		"test_results.started_at",
		"test_results.duration_ms",
	).From("test_results").
		Where(sq.Eq{"test_results.run_id": runID}).
		OrderBy("test_results.seq")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TestRecord
	for rows.Next() {
		var r models.TestRecord
		if err := rows.Scan(
			&r.RunID,
			&r.Suite,
			&r.Group,
			&r.Name,
			&r.Outcome,
			&r.Message,
			&r.StartedAt,
			&r.DurationMs,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// ByOutcome narrows ListByRun to the given outcomes.
func ByOutcome(outcomes ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		return b.Where(sq.Eq{"test_results.outcome": outcomes})
	}
}
