package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/config"
	"github.com/xbe-inc/xbe-integration/pkg/invoke"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// Target is how the e2e suites reach a backend.
type Target struct {
	Mode    string
	BaseURL string
	Token   string
	Binary  string
}

// NewInvoker returns a traced invoker for t. In cli mode the xbe binary
// is pointed at the backend through XBE_BASE_URL and XBE_TOKEN.
func NewInvoker(t Target, cat *catalog.Catalog) (invoke.Invoker, error) {
	zap.S().Named("e2e").Infow("initializing invoker", "mode", t.Mode, "base_url", t.BaseURL)

	switch t.Mode {
	case config.ModeAPI:
		client, err := jsonapi.NewClient(t.BaseURL, jsonapi.WithToken(t.Token))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize api client: %w", err)
		}
		return invoke.Trace(invoke.NewAPIInvoker(client, cat)), nil
	case config.ModeCLI:
		if t.Binary == "" {
			return nil, fmt.Errorf("cli mode needs the path of the xbe binary")
		}
		return invoke.Trace(invoke.NewCLIInvoker(t.Binary,
			invoke.WithBaseURL(t.BaseURL),
			invoke.WithToken(t.Token),
		)), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", t.Mode)
	}
}
