// Package scheduler implements a typed worker pool returning futures.
//
// The runner uses it to execute independent suites concurrently
// (--parallel N). Each suite owns its harness, its invoker results and
// its cleanup list, so the only shared state is the pool itself.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                        Scheduler[T]                                 │
//	│                                                                     │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	│         ▲                     ▲                     ▲               │
//	│         └─────────────────────┼─────────────────────┘               │
//	│                        ┌──────┴──────┐                              │
//	│                        │  dispatch() │                              │
//	│                        └──────┬──────┘                              │
//	│  ┌────────────────────────────┴────────────────────────────┐        │
//	│  │                      Work Queue (FIFO)                  │        │
//	│  │  [brokers] [customers] [truckers] ...                   │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│                               ▲                                     │
//	│                        AddWork(fn)                                  │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Futures
//
// AddWork returns immediately with a Future. C() delivers exactly one
// Result[T]; Stop() cancels the context handed to the work function.
// Await collects a slice of futures in submission order:
//
//	sched := scheduler.NewScheduler[harness.Summary](4)
//	defer sched.Close()
//
//	var futures []*scheduler.Future[scheduler.Result[harness.Summary]]
//	for _, res := range resources {
//	    futures = append(futures, sched.AddWork(func(ctx context.Context) (harness.Summary, error) {
//	        return runSuite(ctx, res)
//	    }))
//	}
//	results := scheduler.Await(ctx, futures)
//
// # Event Loop
//
//	for {
//	    select {
//	    case w := <-s.work:       // new work submitted
//	        s.workQueue.Push(w)
//	        s.dispatch()
//	    case <-s.done:            // a worker finished
//	        s.workers.Push(worker)
//	        s.dispatch()
//	    case <-s.close:           // shutdown requested
//	        s.wg.Wait()
//	        return
//	    }
//	}
//
// # Panic Recovery
//
// A panicking work function is reported as a Result with a
// "worker panicked" error and the worker goes back to the pool.
//
// # Shutdown
//
// Close cancels the main context (every running suite sees ctx.Done()),
// waits for in-flight work and is idempotent. AddWork after Close returns
// a future already holding context.Canceled.
package scheduler
