package harness

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/pkg/invoke"
)

var errNotYet = errors.New("condition not met")

// Eventually repeats fn with backoff until cond holds or the retry policy is
// exhausted, and returns the last result either way.
func (h *Harness) Eventually(ctx context.Context, fn func(context.Context) invoke.Result, cond func(invoke.Result) bool) invoke.Result {
	return h.retry(ctx, "eventually", fn, func(r invoke.Result) bool { return !cond(r) })
}

// RetryTransient repeats fn while it fails with a transient category.
func (h *Harness) RetryTransient(ctx context.Context, fn func(context.Context) invoke.Result) invoke.Result {
	return h.retry(ctx, "transient", fn, func(r invoke.Result) bool {
		return h.tolerations.Classify(r) == invoke.CategoryTransient
	})
}

func (h *Harness) retry(ctx context.Context, kind string, fn func(context.Context) invoke.Result, again func(invoke.Result) bool) invoke.Result {
	log := zap.S().Named("harness")

	var last invoke.Result
	operation := func() (invoke.Result, error) {
		last = fn(ctx)
		if last.Err != nil && ctx.Err() != nil {
			return last, backoff.Permanent(ctx.Err())
		}
		if again(last) {
			return last, errNotYet
		}
		return last, nil
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(h.newBackOff()),
		backoff.WithMaxTries(h.maxTries),
		backoff.WithNotify(func(_ error, next time.Duration) {
			log.Debugw("retrying", "suite", h.name, "kind", kind, "command", last.Command(), "exit_code", last.ExitCode, "next", next)
		}),
	)
	if err != nil {
		log.Debugw("retries exhausted", "suite", h.name, "kind", kind, "command", last.Command(), "error", err)
	}
	return last
}

// Exec runs a command through the suite's invoker.
func (h *Harness) Exec(ctx context.Context, args ...string) invoke.Result {
	return h.inv.Run(ctx, args...)
}

// JSON runs a command with --json through the suite's invoker.
func (h *Harness) JSON(ctx context.Context, args ...string) invoke.Result {
	return h.inv.JSON(ctx, args...)
}
