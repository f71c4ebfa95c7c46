// Package invoke runs xbe commands and captures what they did.
//
// Two Invokers share one Result type:
//
//	┌──────────────────────────┐         ┌──────────────────────────┐
//	│        CLIInvoker        │         │        APIInvoker        │
//	│                          │         │                          │
//	│  exec xbe <args...>      │         │  parse <args...> against │
//	│  env XBE_BASE_URL        │         │  the resource catalog    │
//	│      XBE_TOKEN           │         │  ──▶ jsonapi.Client      │
//	└────────────┬─────────────┘         └────────────┬─────────────┘
//	             │                                    │
//	             └────────────────┬───────────────────┘
//	                              ▼
//	             ┌──────────────────────────────────┐
//	             │              Result              │
//	             │  ExitCode  Stdout  Stderr        │
//	             │  StatusCode (api mode only)      │
//	             │  JSON() / Get(".[0].id")         │
//	             └──────────────────────────────────┘
//
// CLIInvoker is the real thing. APIInvoker speaks to the service directly
// and renders output the way the CLI does (snake_case keys, <rel>_id,
// "Error: ..." on stderr, exit code 1), so suites run unchanged in either
// mode. It is also what the package tests and the sandbox e2e run on.
//
// # Failure categories
//
// Classify sorts a failed Result into usage, policy, transient or defect.
// The HTTP status wins when known; otherwise the output is matched against
// the Tolerations patterns. The harness records tolerated failures (policy
// and transient) as skips.
//
// # Paths
//
// Lookup understands the subset of jq paths suites need:
//
//	.               the document
//	.id             object member
//	.[0].id         array index, negative counts from the end
//	.["odd-key"]    quoted member
package invoke
