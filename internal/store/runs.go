package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/xbe-inc/xbe-integration/internal/models"
	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
)

var runColumns = []string{
	"runs.id",
	"runs.mode",
	"runs.target",
	"runs.suites",
	"runs.status",
	"runs.passed",
	"runs.failed",
	"runs.skipped",
	"runs.started_at",
	"runs.finished_at",
}

type RunStore struct {
	db QueryInterceptor
}

func NewRunStore(db QueryInterceptor) *RunStore {
	return &RunStore{db: db}
}

// Create inserts a run. Counters start at zero.
func (s *RunStore) Create(ctx context.Context, run models.Run) error {
	var suites any
	if len(run.Suites) > 0 {
		suites = strings.Join(run.Suites, ",")
	}
	status := run.Status
	if status == "" {
		status = models.RunStatusRunning
	}
	_, err := s.db.ExecContext(ctx, queryInsertRun,
		run.ID, run.Mode, run.Target, suites, string(status), run.StartedAt.UTC())
	return err
}

// Finish stores the final status and counters of a run.
func (s *RunStore) Finish(ctx context.Context, run models.Run) error {
	finishedAt := time.Now().UTC()
	if run.FinishedAt != nil {
		finishedAt = run.FinishedAt.UTC()
	}

	res, err := s.db.ExecContext(ctx, queryFinishRun,
		string(run.Status), run.Passed, run.Failed, run.Skipped, finishedAt, run.ID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return srvErrors.NewRunNotFoundError(run.ID)
	}
	return nil
}

func (s *RunStore) Get(ctx context.Context, id string) (*models.Run, error) {
	query, args, err := sq.Select(runColumns...).From("runs").Where(sq.Eq{"runs.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewRunNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *RunStore) List(ctx context.Context, opts ...ListOption) ([]models.Run, error) {
	builder := sq.Select(runColumns...).From("runs")

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

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (s *RunStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("runs")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (models.Run, error) {
	var (
		run        models.Run
		target     sql.NullString
		suites     any
		status     string
		finishedAt sql.NullTime
	)
	err := row.Scan(
		&run.ID,
		&run.Mode,
		&target,
		&suites,
		&status,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return models.Run{}, err
	}

	run.Target = target.String
	run.Suites = toStringSlice(suites)
	run.Status = models.RunStatus(status)
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return run, nil
}
