package infra

import (
	"fmt"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
)

// RemoteBackend implements Backend for a deployment managed elsewhere
// (staging, a developer's local API).
type RemoteBackend struct {
	baseURL string
	token   string
}

func NewRemoteBackend(baseURL, token string) *RemoteBackend {
	return &RemoteBackend{baseURL: baseURL, token: token}
}

func (r *RemoteBackend) Start(_ *catalog.Catalog) error {
	if r.baseURL == "" {
		return fmt.Errorf("remote backend needs a base url")
	}
	return nil
}

func (r *RemoteBackend) Stop() error            { return nil }
func (r *RemoteBackend) BaseURL() string        { return r.baseURL }
func (r *RemoteBackend) Token() string          { return r.token }
func (r *RemoteBackend) Leftovers(_ string) int { return -1 }
