// Package server exposes the conversion API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/geoknoesis/rdf-convert/rdf"
)

// DefaultMaxBodyBytes caps request bodies when Settings leaves it unset.
const DefaultMaxBodyBytes = 32 << 20

// Settings configures request handling.
type Settings struct {
	// MaxBodyBytes caps the request body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Options are applied to every conversion, before the request context.
	Options []rdf.Option
}

// Server holds the state for the conversion API.
type Server struct {
	logger   hclog.Logger
	settings Settings
	router   *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(logger hclog.Logger, settings Settings) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if settings.MaxBodyBytes <= 0 {
		settings.MaxBodyBytes = DefaultMaxBodyBytes
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	s := &Server{
		logger:   logger,
		settings: settings,
		router:   r,
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/convert/xml", s.handleConvert(rdf.InputXML))
	s.router.POST("/v1/convert/json", s.handleConvert(rdf.InputJSON))
	s.router.POST("/v1/convert", s.handleConvert(rdf.InputAuto))
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// requestLogger logs one line per request.
func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration", time.Since(start),
		)
	}
}
