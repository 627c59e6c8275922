// Package server exposes the analyzer over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fjacquet/bilanci/internal/logging"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of the analyzer.
type Server struct {
	router *gin.Engine
	port   int
	logger logging.Logger
}

// New builds the router around h. Multipart bodies are buffered in memory
// up to maxMemory bytes and spill to disk beyond that.
func New(h *Handler, port int, maxMemory int64, logger logging.Logger) *Server {
	logger = logging.OrDefault(logger)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if maxMemory > 0 {
		router.MaxMultipartMemory = maxMemory
	}

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/invoice", h.Invoice)
		api.POST("/mapping", h.Mapping)

		analysis := api.Group("/analysis")
		{
			analysis.GET("/last", h.LastAnalysis)
			analysis.GET("/last/export", h.ExportLast)
		}
	}

	return &Server{router: router, port: port, logger: logger}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", logging.Field{Key: "port", Value: s.port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			logging.Field{Key: "method", Value: c.Request.Method},
			logging.Field{Key: "path", Value: c.FullPath()},
			logging.Field{Key: logging.FieldStatus, Value: c.Writer.Status()},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	}
}
