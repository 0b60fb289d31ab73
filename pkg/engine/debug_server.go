package engine

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/errors"
)

// DebugServer exposes a Runtime's registry, instances and recent passes
// over HTTP for inspection.
type DebugServer struct {
	runtime *core.Runtime
	trace   *RenderTraceBuffer
	logger  *slog.Logger
	stop    func()

	// renderMu serializes passes started by request handlers; the
	// runtime renders from one goroutine at a time.
	renderMu sync.Mutex

	mu             sync.Mutex
	server         *http.Server
	listener       net.Listener
	samples        *RuntimeSampleBuffer
	cancelSampling context.CancelFunc
}

// NewDebugServer creates a debug server for rt and starts tracing its
// passes. Call Close to stop tracing.
func NewDebugServer(rt *core.Runtime, logger *slog.Logger) *DebugServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DebugServer{
		runtime: rt,
		trace:   NewRenderTraceBuffer(0, 0),
		logger:  logger,
	}
	s.stop = rt.OnRender(s.trace.Record)
	return s
}

// Trace returns the buffer of recent passes.
func (s *DebugServer) Trace() *RenderTraceBuffer {
	return s.trace
}

// StartSampling records a RuntimeSample every interval, keeping window's
// worth of history. Calling it again restarts sampling with a fresh buffer.
func (s *DebugServer) StartSampling(interval, window time.Duration) {
	buffer := NewRuntimeSampleBuffer(window, interval)
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancelSampling != nil {
		s.cancelSampling()
	}
	s.samples = buffer
	s.cancelSampling = cancel
	s.mu.Unlock()

	go sampleRuntime(ctx, s.runtime, buffer)
}

func (s *DebugServer) stopSampling() {
	s.mu.Lock()
	if s.cancelSampling != nil {
		s.cancelSampling()
		s.cancelSampling = nil
	}
	s.mu.Unlock()
}

// Handler returns the router serving the debug API.
func (s *DebugServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/components", s.handleComponents).Methods(http.MethodGet)
	r.HandleFunc("/api/instances", s.handleInstances).Methods(http.MethodGet)
	r.HandleFunc("/api/instances/{key}", s.handleInstance).Methods(http.MethodGet)
	r.HandleFunc("/api/instances/{key}/rerender", s.handleRerender).Methods(http.MethodPost)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/renders", s.handleRenders).Methods(http.MethodGet)
	r.HandleFunc("/api/runtime", s.handleRuntime).Methods(http.MethodGet)
	return r
}

// Start listens on addr and serves the debug API in the background.
// Returns the bound address, useful when addr uses port 0.
func (s *DebugServer) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().String(), nil
	}

	// Bind first to fail fast on port conflicts
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}

	server := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			s.logger.Error("debug server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("debug server listening", slog.String("addr", listener.Addr().String()))
	return listener.Addr().String(), nil
}

// Shutdown gracefully stops the HTTP server if it is running.
func (s *DebugServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Close stops tracing and sampling and shuts the server down.
func (s *DebugServer) Close() error {
	s.stop()
	s.stopSampling()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

func (s *DebugServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *DebugServer) handleComponents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runtime.Registry().Names())
}

func (s *DebugServer) handleInstances(w http.ResponseWriter, r *http.Request) {
	instances := s.runtime.Store().Snapshot()
	if component := r.URL.Query().Get("component"); component != "" {
		filtered := instances[:0]
		for _, info := range instances {
			if info.Component == component {
				filtered = append(filtered, info)
			}
		}
		instances = filtered
	}
	writeJSON(w, http.StatusOK, instances)
}

func (s *DebugServer) handleInstance(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	info, ok := s.runtime.Store().Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("instance %q not found", key))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *DebugServer) handleRerender(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := s.rerender(key); err != nil {
		status := http.StatusInternalServerError
		switch {
		case stderrors.Is(err, errors.ErrInstanceNotFound):
			status = http.StatusNotFound
		case stderrors.Is(err, errors.ErrComponentNotRegistered):
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	info, _ := s.runtime.Store().Lookup(key)
	writeJSON(w, http.StatusOK, info)
}

func (s *DebugServer) rerender(key string) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.runtime.Rerender(key)
}

func (s *DebugServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runtime.Stats())
}

func (s *DebugServer) handleRenders(w http.ResponseWriter, r *http.Request) {
	resp := s.trace.Snapshot()
	applyRenderFilters(r, &resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *DebugServer) handleRuntime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	buffer := s.samples
	s.mu.Unlock()
	if buffer == nil {
		writeError(w, http.StatusServiceUnavailable, "runtime sampling disabled")
		return
	}

	samples := applyRuntimeFilters(r, buffer.Snapshot())
	writeJSON(w, http.StatusOK, struct {
		Samples []RuntimeSample `json:"samples"`
	}{Samples: samples})
}

func applyRuntimeFilters(r *http.Request, samples []RuntimeSample) []RuntimeSample {
	if windowSeconds := parseFloatQuery(r, "window"); windowSeconds > 0 {
		cutoff := time.Now().Add(-time.Duration(windowSeconds * float64(time.Second))).UnixMilli()
		filtered := make([]RuntimeSample, 0, len(samples))
		for _, sample := range samples {
			if sample.Timestamp >= cutoff {
				filtered = append(filtered, sample)
			}
		}
		samples = filtered
	}

	if value := r.URL.Query().Get("limit"); value != "" {
		if limit, err := strconv.Atoi(value); err == nil && limit > 0 && len(samples) > limit {
			samples = samples[len(samples)-limit:]
		}
	}
	return samples
}

func applyRenderFilters(r *http.Request, resp *RenderTimeline) {
	query := r.URL.Query()

	var filters []func(RenderSample) bool
	if component := query.Get("component"); component != "" {
		filters = append(filters, func(s RenderSample) bool { return s.Component == component })
	}
	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filters = append(filters, func(s RenderSample) bool { return s.PassMs >= v })
	}
	if value := query.Get("failed"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil && parsed {
			filters = append(filters, func(s RenderSample) bool { return s.Error != "" })
		}
	}

	if len(filters) > 0 {
		filtered := make([]RenderSample, 0, len(resp.Samples))
	outer:
		for _, sample := range resp.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		resp.Samples = filtered
	}

	if value := query.Get("limit"); value != "" {
		if limit, err := strconv.Atoi(value); err == nil && limit > 0 && len(resp.Samples) > limit {
			resp.Samples = resp.Samples[len(resp.Samples)-limit:]
		}
	}
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
