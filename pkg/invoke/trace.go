package invoke

import (
	"context"

	"go.uber.org/zap"
)

// Trace wraps an Invoker and logs every command with its exit code,
// duration and first line of output.
func Trace(next Invoker) Invoker {
	return &tracer{next: next, log: zap.S().Named("invoke")}
}

type tracer struct {
	next Invoker
	log  *zap.SugaredLogger
}

func (t *tracer) Run(ctx context.Context, args ...string) Result {
	return t.trace(t.next.Run(ctx, args...))
}

func (t *tracer) JSON(ctx context.Context, args ...string) Result {
	return t.trace(t.next.JSON(ctx, args...))
}

func (t *tracer) trace(r Result) Result {
	kv := []any{"command", r.Command(), "exit_code", r.ExitCode, "duration", r.Duration}
	if r.StatusCode != 0 {
		kv = append(kv, "status", r.StatusCode)
	}
	if !r.Success() {
		kv = append(kv, "output", r.Excerpt(200))
	}
	t.log.Infow("xbe", kv...)
	return r
}
