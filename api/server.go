// Package api serves sun times and positions over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/subtlepseudonym/sunup"
	"github.com/subtlepseudonym/sunup/metrics"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	mu      sync.Mutex
	firings map[string]sunup.Firing
}

// NewServer creates a configured HTTP server that logs through the
// logger carried by ctx.
func NewServer(ctx context.Context, addr string) *Server {
	s := &Server{
		logger:  ctxlog.Logger(ctx).With("component", "api"),
		firings: make(map[string]sunup.Firing),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /v1/times", s.times)
	mux.HandleFunc("GET /v1/position", s.position)
	mux.HandleFunc("GET /v1/seasons", s.seasons)
	mux.HandleFunc("GET /v1/events", s.events)

	// metrics -> logging -> mux
	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Record keeps the latest firing of each job for /v1/events. It has
// the signature of sunup.EventJob's Notify.
func (s *Server) Record(_ context.Context, f sunup.Firing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.firings[f.Job] = f
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if r.URL.Path == "/healthz" {
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("ERR: encode response", "status", code, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

type eventResponse struct {
	Job     string `json:"job"`
	Event   string `json:"event"`
	FiredAt string `json:"fired_at"`
	Sunrise string `json:"sunrise"`
	Noon    string `json:"noon"`
	Sunset  string `json:"sunset"`
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := make([]eventResponse, 0, len(s.firings))
	for _, f := range s.firings {
		resp = append(resp, eventResponse{
			Job:     f.Job,
			Event:   f.Event.String(),
			FiredAt: f.At.Format(time.RFC3339),
			Sunrise: f.Times.Sunrise.String(),
			Noon:    f.Times.SolarNoon.String(),
			Sunset:  f.Times.Sunset.String(),
		})
	}
	s.mu.Unlock()

	sort.Slice(resp, func(i, j int) bool { return resp[i].Job < resp[j].Job })
	s.writeJSON(w, http.StatusOK, resp)
}
