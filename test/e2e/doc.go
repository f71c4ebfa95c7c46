/*
Package main provides the end-to-end runner of xbe-integration.

It runs every catalog suite through the real harness against a backend and
fails when any case fails or any created record is left behind.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, Backend setup, Ginkgo runner
	├── tests.go         Ginkgo specs (each suite alone, all suites in parallel)
	├── doc.go           This file
	├── infra/
	│   ├── infra.go     Backend interface
	│   ├── sandbox.go   SandboxBackend (in-process JSON:API service)
	│   └── remote.go    RemoteBackend (externally managed deployment)
	└── service/
	    └── service.go   Invoker construction for api and cli mode

# Backend

	type Backend interface {
	    Start(cat) / Stop()
	    BaseURL() / Token()
	    Leftovers(resource)
	}

Two implementations:
  - SandboxBackend: starts internal/sandbox on -sandbox-addr (default).
  - RemoteBackend: no-op; the deployment is reached through -base-url and -token.

Selected via the -backend flag ("sandbox" or "remote").

	┌─────────┐      ┌──────────┐      ┌─────────────────┐
	│ Harness │─────▶│ Invoker  │─────▶│ Backend         │
	└─────────┘      │ api│cli  │      │ sandbox│remote  │
	                 └──────────┘      └─────────────────┘

With the sandbox backend, Leftovers inspects the stored records so the runner
also verifies cleanup. Remote backends only report case outcomes.

# Running

	go run ./test/e2e
	go run ./test/e2e -mode cli -binary ./bin/xbe
	go run ./test/e2e -backend remote -base-url https://staging.x-b-e.com -token $XBE_TOKEN
*/
package main
