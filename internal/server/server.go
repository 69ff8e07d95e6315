// Package server implements a fixture backend that serves pre-computed
// graph snapshots from a directory.
//
// Each file DIR/<wire>.json is served at GET /api/<wire> and
// GET /topology/<wire>. Files are decoded and validated when loaded, so a
// snapshot that violates the graph invariants is answered with 500 instead
// of being handed to a viewer. With watching enabled the directory is
// reloaded whenever a JSON file changes.
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/visunn/pkg/errors"
	"github.com/matzehuels/visunn/pkg/observability"
	"github.com/matzehuels/visunn/pkg/tag"
	"github.com/matzehuels/visunn/pkg/topology"
)

// Prefixes are the route names a snapshot is served under.
var Prefixes = []string{"api", "topology"}

const fixtureExt = ".json"

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithDebounce sets how long the watcher waits for a burst of file events
// to settle before reloading.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

// Server serves snapshots loaded from a fixture directory.
type Server struct {
	dir      string
	logger   *log.Logger
	gatherer prometheus.Gatherer
	debounce time.Duration

	mu        sync.RWMutex
	snapshots map[string][]byte // wire -> compact JSON
	invalid   map[string]error  // wire -> validation failure
}

// New creates a server for dir. Call Reload before serving.
func New(dir string, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		dir:       dir,
		logger:    logger,
		debounce:  100 * time.Millisecond,
		snapshots: map[string][]byte{},
		invalid:   map[string]error{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload rereads the fixture directory and swaps in the result. Files whose
// name is not a valid wire tag are skipped.
func (s *Server) Reload(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeNotFound, err, "read fixture dir %s", s.dir)
		observability.Server().OnReload(ctx, 0, err)
		return 0, err
	}

	snapshots := make(map[string][]byte, len(entries))
	invalid := map[string]error{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fixtureExt {
			continue
		}
		wire := strings.TrimSuffix(name, fixtureExt)
		if _, err := tag.Decode(wire); err != nil {
			s.logger.Warn("skip fixture", "file", name, "err", err)
			continue
		}

		snap, err := topology.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Error("invalid fixture", "tag", wire, "err", err)
			invalid[wire] = err
			continue
		}
		data, err := topology.Marshal(snap)
		if err != nil {
			invalid[wire] = err
			continue
		}
		snapshots[wire] = data
	}

	s.mu.Lock()
	s.snapshots, s.invalid = snapshots, invalid
	s.mu.Unlock()

	observability.Server().OnReload(ctx, len(snapshots), nil)
	s.logger.Info("loaded fixtures", "dir", s.dir, "snapshots", len(snapshots), "invalid", len(invalid))
	return len(snapshots), nil
}

// Tags returns the wire tags currently served.
func (s *Server) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := make([]string, 0, len(s.snapshots))
	for w := range s.snapshots {
		tags = append(tags, w)
	}
	return tags
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	for _, prefix := range Prefixes {
		r.Get("/"+prefix+"/{tag}", s.handleSnapshot)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.snapshots)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "snapshots": n})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	wire := chi.URLParam(r, "tag")
	if _, err := tag.Decode(wire); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.RLock()
	data, ok := s.snapshots[wire]
	bad := s.invalid[wire]
	s.mu.RUnlock()

	switch {
	case bad != nil:
		writeError(w, http.StatusInternalServerError, bad)
	case !ok:
		writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "no module %s", wire))
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: string(code), Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if id := middleware.GetReqID(r.Context()); id != "" {
			ww.Header().Set(middleware.RequestIDHeader, id)
		}

		next.ServeHTTP(ww, r)

		route := "other"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)
		observability.Server().OnServe(r.Context(), route, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving fixtures", "addr", addr, "dir", s.dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
