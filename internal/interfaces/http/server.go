// Package http exposes the operator status API: liveness, the last pass
// summary and the journal of recent order outcomes.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/infrastructure/logger"
)

// ServerConfig holds status server configuration
type ServerConfig struct {
	// Port to listen on
	Port string
	// Env selects the gin mode; production runs in release mode
	Env string
}

// Server is the status HTTP server
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates the status server and registers the handler's routes.
func NewServer(config ServerConfig, handler *StatusHandler, zapLogger *zap.Logger) *Server {
	if config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(
		logger.RequestID(),
		logger.GinMiddleware(zapLogger),
		logger.Recovery(zapLogger),
	)

	handler.RegisterRoutes(engine)

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: zapLogger,
	}
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Status server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("status server shutdown: %w", err)
	}
	s.logger.Info("Status server stopped")
	return nil
}

// Engine exposes the underlying gin engine, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
