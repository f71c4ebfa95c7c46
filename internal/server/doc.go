// Package server provides the HTTP server behind the sandbox service.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	│               http://127.0.0.1:<free port>                    │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Ginzap (request logging, "http" logger)                │  │
//	│  │  RecoveryWithZap (panic recovery with stack trace)      │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                         Router (/v1)                          │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Group middlewares (auth, fault injection)              │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// Unknown routes answer 404 with a JSON:API error document.
//
// # Server Lifecycle
//
// NewServer binds the listener right away, so URL is valid before Start
// and an address of ":0" picks a free port:
//
//	srv, err := server.NewServer(server.Config{}, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, h)
//	}, authMiddleware)
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("server error", "error", err)
//	    }
//	}()
//
//	srv.Stop(ctx)
//
// Start returns nil after a graceful shutdown, triggered either by Stop or
// by cancelling ctx.
package server
