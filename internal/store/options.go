package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/xbe-inc/xbe-integration/internal/models"
)

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStatus(statuses ...models.RunStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		return b.Where(sq.Eq{"runs.status": values})
	}
}

// BySuite keeps runs that executed at least one of the given suites.
func BySuite(suites ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(suites) == 0 {
			return b
		}
		sub := sq.Select("DISTINCT test_results.run_id").
			From("test_results").
			Where(sq.Eq{"test_results.suite": suites})
		return b.Where(sq.Expr("runs.id IN (?)", sub))
	}
}

func ByMode(mode string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if mode == "" {
			return b
		}
		return b.Where(sq.Eq{"runs.mode": mode})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

// WithDefaultSort lists the most recent runs first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("runs.started_at DESC", "runs.id")
	}
}

func toStringSlice(v any) []string {
	if v == nil {
		return nil
	}
	slice, ok := v.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if item == nil {
			continue
		}
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}
