package sandbox

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/internal/catalog"
	"github.com/xbe-inc/xbe-integration/internal/handlers"
	"github.com/xbe-inc/xbe-integration/internal/server"
	"github.com/xbe-inc/xbe-integration/internal/services"
)

// Sandbox is an in-process stand-in for the xbe API serving every catalog
// resource.
type Sandbox struct {
	srv     *server.Server
	issuer  *Issuer
	records *services.RecordService
	token   string
	cancel  context.CancelFunc
	done    chan struct{}
}

type options struct {
	addr   string
	secret []byte
	noAuth bool
	faults []Fault
	mode   string
}

type Option func(*options)

func WithAddr(addr string) Option {
	return func(o *options) {
		o.addr = addr
	}
}

func WithSecret(secret []byte) Option {
	return func(o *options) {
		o.secret = secret
	}
}

// WithoutAuth accepts requests without a token.
func WithoutAuth() Option {
	return func(o *options) {
		o.noAuth = true
	}
}

// WithFaults fails matching requests before they reach the handlers.
func WithFaults(faults ...Fault) Option {
	return func(o *options) {
		o.faults = append(o.faults, faults...)
	}
}

func WithMode(mode string) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// Start serves cat in the background until Stop is called.
func Start(cat *catalog.Catalog, opts ...Option) (*Sandbox, error) {
	o := options{mode: server.ModeRelease}
	for _, opt := range opts {
		opt(&o)
	}

	issuer, err := NewIssuer(o.secret, 0)
	if err != nil {
		return nil, err
	}
	token, err := issuer.Issue("xbe-integration")
	if err != nil {
		return nil, err
	}

	var middlewares []gin.HandlerFunc
	if len(o.faults) > 0 {
		middlewares = append(middlewares, newFaultInjector(o.faults).middleware())
	}
	if !o.noAuth {
		middlewares = append(middlewares, authMiddleware(issuer))
	}

	records := services.NewRecordService(cat)
	h := handlers.New(records)
	srv, err := server.NewServer(server.Config{Addr: o.addr, Mode: o.mode}, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	}, middlewares...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Sandbox{
		srv:     srv,
		issuer:  issuer,
		records: records,
		token:   token,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := srv.Start(ctx); err != nil {
			zap.S().Named("sandbox").Errorw("sandbox server stopped", "error", err)
		}
	}()

	zap.S().Named("sandbox").Infow("sandbox started", "url", srv.URL(), "resources", len(cat.Names()), "auth", !o.noAuth)
	return s, nil
}

// URL is the base URL to pass as XBE_BASE_URL.
func (s *Sandbox) URL() string {
	return s.srv.URL()
}

// Token is a valid bearer token for this sandbox.
func (s *Sandbox) Token() string {
	return s.token
}

func (s *Sandbox) Issuer() *Issuer {
	return s.issuer
}

// Records exposes the stored records, mostly for assertions in tests.
func (s *Sandbox) Records() *services.RecordService {
	return s.records
}

func (s *Sandbox) Stop(ctx context.Context) error {
	defer s.cancel()

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := s.srv.Stop(stopCtx)
	<-s.done
	return err
}
