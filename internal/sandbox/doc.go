// Package sandbox runs an in-process JSON:API service that behaves like the
// xbe API for every catalog resource.
//
// It lets the harness, the suites and the e2e runner work without network
// access or credentials:
//
//	sb, err := sandbox.Start(cat)
//	defer sb.Stop(ctx)
//
//	client, _ := jsonapi.NewClient(sb.URL(), jsonapi.WithToken(sb.Token()))
//	inv := invoke.NewAPIInvoker(client, cat)
//
// # Request Path
//
//	request ──▶ ginzap ──▶ recovery ──▶ faults ──▶ auth ──▶ handlers ──▶ RecordService
//	                                      │          │
//	                                      ▼          ▼
//	                                 503 (first   401 Not Authorized
//	                                  N hits)
//
// # Authentication
//
// Tokens are HS256 JWTs signed with a per-sandbox secret (random unless
// WithSecret is given) and issued by "xbe-sandbox". Start issues one token
// for the harness; Issuer can mint more. A missing, expired or foreign token
// is answered with 401 and the "Not Authorized" title, the same text the xbe
// API uses. WithoutAuth disables the check.
//
// # Fault Injection
//
// WithFaults makes the first Count requests matching a path prefix (and
// optionally a method) fail with Status, 503 by default, so retry paths in
// the client and the harness can be exercised.
package sandbox
