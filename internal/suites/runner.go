package suites

import (
	"bytes"
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/pkg/harness"
	"github.com/xbe-inc/xbe-integration/pkg/scheduler"
)

// RunAll runs the suites of resources on parallel workers and returns the
// summaries of the suites that finished, in resource order. aborted is true
// when ctx ended before every suite finished.
//
// With more than one worker each suite writes to its own buffer, copied to
// the executor output once the suite is done, so lines of different suites
// never interleave.
func (e *Executor) RunAll(ctx context.Context, resources []*catalog.Resource, parallel int) (summaries []harness.Summary, aborted bool) {
	log := zap.S().Named("suites")

	if parallel < 1 {
		parallel = 1
	}
	if parallel == 1 {
		for _, res := range resources {
			if ctx.Err() != nil {
				return summaries, true
			}
			summaries = append(summaries, e.Run(ctx, res))
		}
		return summaries, false
	}

	sched := scheduler.NewScheduler[harness.Summary](parallel)
	defer sched.Close()

	var outMu sync.Mutex
	futures := make([]*scheduler.Future[scheduler.Result[harness.Summary]], 0, len(resources))
	for _, res := range resources {
		futures = append(futures, sched.AddWork(func(workCtx context.Context) (harness.Summary, error) {
			workCtx, cancel := context.WithCancel(workCtx)
			defer cancel()
			stop := context.AfterFunc(ctx, cancel)
			defer stop()

			var buf bytes.Buffer
			s := e.run(workCtx, res, &buf)

			outMu.Lock()
			_, _ = io.Copy(e.out, &buf)
			outMu.Unlock()

			return s, nil
		}))
	}

	for i, r := range scheduler.Await(ctx, futures) {
		if r.Err != nil {
			log.Warnw("suite did not finish", "suite", resources[i].Name, "error", r.Err)
			aborted = true
			continue
		}
		summaries = append(summaries, r.Data)
	}
	return summaries, aborted || ctx.Err() != nil
}
