package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusServer serves the scheduled-mode endpoints:
//   - /health: liveness, always 200 with the last run summary
//   - /health/ready: 200 once the scheduler is running, 503 before
//   - /metrics: Prometheus exposition of the given gatherer
type StatusServer struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	ready    atomic.Bool
	lastRun  atomic.Pointer[RunStatus]
	server   *http.Server
}

// RunStatus describes the most recent pipeline run.
type RunStatus struct {
	FinishedAt time.Time `json:"finished_at"`
	Items      int       `json:"items"`
	Error      string    `json:"error,omitempty"`
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *RunStatus `json:"last_run,omitempty"`
}

// NewStatusServer creates a server listening on addr. A nil gatherer serves
// the default Prometheus registry.
func NewStatusServer(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) *StatusServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusServer{
		addr:     addr,
		logger:   logger,
		gatherer: gatherer,
	}
}

// Handler returns the HTTP routes of the server.
func (s *StatusServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleLiveness)
	mux.HandleFunc("/health/ready", s.handleReadiness)
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Start serves until ctx is cancelled, then shuts down with a 5 second grace
// period. It returns http.ErrServerClosed after a clean shutdown.
func (s *StatusServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server starting", slog.String("addr", s.addr))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("status server shutdown failed", slog.Any("error", err))
			return err
		}
		s.logger.Info("status server stopped")
		return http.ErrServerClosed

	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady flips the readiness probe.
func (s *StatusServer) SetReady(ready bool) {
	s.ready.Store(ready)
	s.logger.Info("status server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores the outcome of a finished run for /health.
func (s *StatusServer) RecordRun(items int, err error) {
	status := &RunStatus{FinishedAt: time.Now().UTC(), Items: items}
	if err != nil {
		status.Error = err.Error()
	}
	s.lastRun.Store(status)
}

// LastRun returns the most recent run outcome, or nil before the first run.
func (s *StatusServer) LastRun() *RunStatus {
	return s.lastRun.Load()
}

func (s *StatusServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", LastRun: s.lastRun.Load()})
}

func (s *StatusServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *StatusServer) writeJSON(w http.ResponseWriter, code int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
