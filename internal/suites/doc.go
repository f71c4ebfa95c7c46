// Package suites runs the generic CRUD suite of a catalog resource.
//
// Every catalog entry becomes the same arrange, act, assert and cleanup
// sequence, driven through a harness.Harness and whatever invoke.Invoker the
// runner picked (the xbe binary or the JSON:API client).
//
// # Suite Flow
//
//	Describe("Resource: <name>")
//	    │
//	    ├── requires_seeds missing ─────────────► SKIP prerequisites, stop
//	    │
//	    ├── fixtures: seed XBE_TEST_<X> or create (+ cleanup)
//	    │       └── creation failed ────────────► FAIL/SKIP fixture, stop
//	    │
//	    ├── create with required fields          object with .id (+ cleanup)
//	    ├── created record keeps unique values   .<attr> == sent value
//	    ├── create without --<required> fails    one case per required flag
//	    ├── show <id>                            retried while eventual
//	    ├── show 0 fails
//	    ├── list, --limit 1, --offset 1 [--sort] array, at most 1 element
//	    ├── list --<filter> <value>              array [containing the record]
//	    ├── update <id> --<flag> <value>         .id and update.expect paths
//	    ├── update <id> without fields fails     "no fields to update"
//	    └── delete <id> without --confirm fails, delete --confirm (forget
//	        cleanup), show deleted fails
//
// Cases that need the created record are skipped when create did not
// produce one. Failures the harness tolerates (policy refusals, outages and
// the entry's tolerate patterns) are skips. Reads are retried on transient
// failures. With fail-fast the suite stops after the first failed case;
// cleanup still runs.
//
// # Templates
//
// Values in create, update, expect, fixture values and list filters are
// text/template strings with these functions:
//
//	┌──────────────────────┬───────────────────────────────────────────────┐
//	│ Function             │ Value                                         │
//	├──────────────────────┼───────────────────────────────────────────────┤
//	│ uniqueName "Broker"  │ Broker-20260301T100000-1a2b3c4d5e6f           │
//	│ uniqueEmail          │ xbe-test-...@example.com                      │
//	│ fixture "broker"     │ id of a resolved fixture                      │
//	│ seed "JOB_ID"        │ XBE_TEST_JOB_ID                               │
//	│ created "name"       │ field of the created record's JSON output     │
//	│ now / today          │ RFC 3339 timestamp / YYYY-MM-DD, UTC          │
//	└──────────────────────┴───────────────────────────────────────────────┘
//
// # Parallelism
//
// RunAll runs independent suites on a pkg/scheduler worker pool. A suite is
// strictly sequential and owns its harness, fixtures and cleanup list.
package suites
