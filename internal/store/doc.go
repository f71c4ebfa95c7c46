// Package store implements the run history of the runner.
//
// Every "xbe-integration run" with a data folder configured is recorded in a
// DuckDB database (<data-folder>/history.duckdb) so past runs and their test
// outcomes can be listed with "xbe-integration history".
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├────────────────────────────────┬────────────────────────────────┤
//	│            RunStore            │          ResultStore           │
//	│               ▼                │               ▼                │
//	│              runs              │          test_results          │
//	├────────────────────────────────┴────────────────────────────────┤
//	│                 QueryInterceptor (debug SQL logs)               │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Created by the embedded migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  runs              │  One row per runner invocation              │
//	│  test_results      │  One row per test case, ordered by seq      │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	NewDB(path)              ":memory:" opens an in-memory database
//	migrations.Run(ctx, db)  applies pending sql/NNN_*.sql files
//	NewStore(db)             wraps db in a QueryInterceptor for each sub-store
//
// # RunStore
//
//   - Create(ctx, run)   inserts a running run
//   - Finish(ctx, run)   stores status, counters and finished_at
//   - Get(ctx, id)       ResourceNotFoundError when unknown
//   - List / Count       composable ListOptions
//
// List options modify a squirrel.SelectBuilder:
//
//	runs, err := store.Runs().List(ctx,
//	    store.ByStatus(models.RunStatusFailed),
//	    store.BySuite("brokers"),
//	    store.WithDefaultSort(),
//	    store.WithLimit(20),
//	)
//
// BySuite matches runs through their test_results rows, so a run that never
// recorded a result for a suite is not listed for it.
//
// # ResultStore
//
//   - Save(ctx, records...)  one multi-row INSERT, seq continues per run
//   - ListByRun(ctx, id)     records in save order, ByOutcome narrows them
package store
