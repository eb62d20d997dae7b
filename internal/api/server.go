// Package api exposes the article cache over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"antifraud/internal/cache"
	"antifraud/internal/logger"
	"antifraud/internal/metrics"
	"antifraud/internal/models"
)

const shutdownTimeout = 10 * time.Second

// ArticleService is the read side of the article cache.
type ArticleService interface {
	Load(ctx context.Context) cache.Result
	GetArticle(ctx context.Context, id string) (models.Article, bool)
	Search(ctx context.Context, query string) []models.Article
	Invalidate(ctx context.Context)
	TTL() time.Duration
	Backend() string
}

// Options configures a Server.
type Options struct {
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Presence reports which credentials are configured, for the health endpoint.
	Presence map[string]bool
}

// Server routes API requests to the article service.
type Server struct {
	articles ArticleService
	logger   *logger.Logger
	metrics  *metrics.Metrics
	presence map[string]bool
	engine   *gin.Engine
}

// NewServer builds the router. A nil Gatherer leaves /metrics unregistered.
func NewServer(articles ArticleService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		articles: articles,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		presence: opts.Presence,
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.observe())

	api := s.engine.Group("/api")
	api.GET("/articles", s.listArticles)
	api.GET("/articles/:id", s.getArticle)
	api.GET("/search", s.searchArticles)
	api.POST("/cache/invalidate", s.invalidateCache)
	api.GET("/health", s.health)

	if opts.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("API server listening", "addr", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down API server")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// observe logs and counts every request by its route pattern.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		s.logger.Debug("Request served",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	}
}
