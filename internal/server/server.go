package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

const (
	ModeDev     = "dev"
	ModeRelease = "release"

	APIPrefix = "/v1"
)

type Config struct {
	// Addr defaults to 127.0.0.1:0, a free local port.
	Addr string
	Mode string
}

// Server serves the JSON:API routes registered on the /v1 group.
type Server struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

// NewServer binds the listener so URL is known before Start. middlewares run
// before the handlers of the /v1 group.
func NewServer(cfg Config, registerHandlerFn func(router *gin.RouterGroup), middlewares ...gin.HandlerFunc) (*Server, error) {
	if cfg.Mode == ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	logger := zap.L().Named("http")
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.Data(http.StatusNotFound, jsonapi.MediaType, []byte(`{"errors":[{"status":"404","title":"Not Found"}]}`))
	})

	api := engine.Group(APIPrefix, middlewares...)
	registerHandlerFn(api)

	return &Server{
		srv: &http.Server{
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: listener,
		url:      fmt.Sprintf("http://%s", listener.Addr().String()),
	}, nil
}

// URL is the base URL clients use, without the /v1 prefix.
func (s *Server) URL() string {
	return s.url
}

// Start blocks serving requests until Stop is called or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	zap.S().Named("http").Infow("server started", "url", s.url)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests to complete.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
