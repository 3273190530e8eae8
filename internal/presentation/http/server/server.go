// Package server configures and runs the HTTP server.
package server

import (
	"context"
	"net/http"

	"github.com/commonsforge/pagecraft-go/internal/application/container"
	"github.com/commonsforge/pagecraft-go/internal/presentation/http/routes"
	"github.com/commonsforge/pagecraft-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New builds the server with all routes registered.
func New(c *container.Container) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	routes.SetupRoutes(router, c)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      router,
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		container: c,
	}
}

// Start blocks serving requests until the listener fails or is shut down.
func (s *Server) Start() error {
	s.container.Logger.Startup().Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
