// Package server exposes an analysis session over JSON
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/metrics"
)

// Recorder persists MCPs and results. *store.Store satisfies it.
type Recorder interface {
	SaveMCP(ctx context.Context, c *mcp.MCP) error
	SaveResults(ctx context.Context, modelID string, results []*loads.Result) (string, error)
}

// Options wires the server's collaborators. Only Session is required.
type Options struct {
	Session    *mcp.Session
	Engine     *loads.Engine
	Classifier classifier.Classifier
	Recorder   Recorder
	Site       loads.SiteDefaults

	Logger       *slog.Logger
	Metrics      *metrics.Registry
	MaxBodyBytes int64
}

type Server struct {
	session    *mcp.Session
	engine     *loads.Engine
	classifier classifier.Classifier
	recorder   Recorder
	site       loads.SiteDefaults

	logger  *slog.Logger
	metrics *metrics.Registry
	maxBody int64
	mux     *http.ServeMux
}

// New creates a server and registers its routes
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Engine == nil {
		opts.Engine = loads.NewEngine(opts.Logger, opts.Metrics)
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	s := &Server{
		session:    opts.Session,
		engine:     opts.Engine,
		classifier: opts.Classifier,
		recorder:   opts.Recorder,
		site:       opts.Site,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		maxBody:    opts.MaxBodyBytes,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/models", s.handleLoadModel)
	s.mux.HandleFunc("GET /api/mcp", s.handleGetMCP)
	s.mux.HandleFunc("GET /api/mcp/validation", s.handleValidation)
	s.mux.HandleFunc("POST /api/mcp/building-type", s.handleBuildingType)
	s.mux.HandleFunc("POST /api/mcp/member-tags", s.handleMemberTags)
	s.mux.HandleFunc("POST /api/mcp/lock", s.handleLock)
	s.mux.HandleFunc("POST /api/mcp/reclassify", s.handleReclassify)
	s.mux.HandleFunc("POST /api/loads", s.handleLoads)
	s.mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}
	return s
}

// Handler returns the routed handler wrapped with request logging and metrics
func (s *Server) Handler() http.Handler {
	return s.instrument(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// within shutdownTimeout
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		d := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(rec.status), d)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", d,
		)
	})
}
