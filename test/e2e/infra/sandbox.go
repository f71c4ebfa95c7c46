package infra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/sandbox"
)

// SandboxBackend runs the in-process sandbox service for the duration of
// the e2e run.
type SandboxBackend struct {
	addr string
	sb   *sandbox.Sandbox
}

func NewSandboxBackend(addr string) *SandboxBackend {
	return &SandboxBackend{addr: addr}
}

func (s *SandboxBackend) Start(cat *catalog.Catalog) error {
	sb, err := sandbox.Start(cat, sandbox.WithAddr(s.addr))
	if err != nil {
		return fmt.Errorf("starting sandbox: %w", err)
	}
	s.sb = sb
	zap.S().Named("e2e").Infow("sandbox backend started", "url", sb.URL())
	return nil
}

func (s *SandboxBackend) Stop() error {
	if s.sb == nil {
		return nil
	}
	return s.sb.Stop(context.Background())
}

func (s *SandboxBackend) BaseURL() string {
	return s.sb.URL()
}

func (s *SandboxBackend) Token() string {
	return s.sb.Token()
}

func (s *SandboxBackend) Leftovers(resource string) int {
	return s.sb.Records().Count(resource)
}
