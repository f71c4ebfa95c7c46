package infra

import "github.com/xbe-inc/xbe-integration/internal/catalog"

// Backend abstracts the xbe deployment the e2e suites run against.
// Sandbox: an in-process service started and stopped by the runner.
// Remote: managed externally, the runner only needs its URL and a token.
type Backend interface {
	Start(cat *catalog.Catalog) error
	Stop() error
	BaseURL() string
	Token() string
	// Leftovers counts the records of resource still stored. Remote
	// backends cannot tell and return -1.
	Leftovers(resource string) int
}

const (
	BackendSandbox = "sandbox"
	BackendRemote  = "remote"
)
