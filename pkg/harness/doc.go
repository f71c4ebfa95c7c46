// Package harness records the outcome of integration tests run against the
// xbe CLI and cleans up what they created.
//
// A suite is a linear script:
//
//	h := harness.New("customers", inv)
//	h.Describe("Resource: customers")
//
//	h.Test("create customer with required fields")
//	res := h.JSON(ctx, "do", "customers", "create", "--name", harness.UniqueName("Customer"), "--broker", brokerID)
//	if h.AssertJSON(res, harness.IsObject(), harness.Has(".id")) {
//	    h.RegisterCleanup("customers", res.GetString(".id"))
//	}
//
//	h.Test("create customer without broker fails")
//	h.AssertFailure(h.Exec(ctx, "do", "customers", "create", "--name", "x"))
//
//	summary := h.Run(ctx)
//	os.Exit(summary.ExitCode())
//
// # Test cases
//
//	Test(name) ──▶ pending ──┬── Pass()            ──▶ passed
//	                         ├── Fail(msg)         ──▶ failed
//	                         ├── Skip(reason)      ──▶ skipped
//	                         └── Test()/Run()      ──▶ failed "no assertion recorded"
//
// The first outcome wins; later calls on the same case are logged and
// ignored. Assertions never panic or return errors: they record an outcome
// and report whether it was a pass, so a suite can branch on it (register a
// cleanup only after a successful create).
//
// # Tolerated failures
//
// AssertSuccessOrSkip and SkipIfTolerated turn an expected refusal into a
// skip instead of a failure. A failure is tolerated when its category is
// policy (401/403/409/422, "Not Authorized", ...) or transient (502/503/504),
// or when its output matches one of the extra patterns passed in. Usage
// errors are only tolerated through an explicit pattern.
//
// # Cleanup
//
// RegisterCleanup records (type, id) pairs once each. Run deletes them in
// reverse order with "do <type> delete <id> --confirm" after the summary is
// printed, on a context detached from cancellation. A record already gone
// counts as cleaned; other failures are logged and counted in
// Summary.CleanupErrors but never change a test outcome.
package harness
