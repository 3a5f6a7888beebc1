// Package server exposes the run control surface over HTTP: start, stop,
// status, an event stream, and Prometheus metrics.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rag_data_generator/config"
	"rag_data_generator/orchestrator"
	"rag_data_generator/writer"
)

type Server struct {
	orch *orchestrator.Orchestrator
	cfg  config.Config
	log  *slog.Logger
}

func New(orch *orchestrator.Orchestrator, cfg config.Config) (*Server, error) {
	if orch == nil {
		return nil, errors.New("orchestrator required")
	}
	return &Server{orch: orch, cfg: cfg, log: slog.Default()}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/run", s.handleRun)
	mux.HandleFunc("/api/run/stop", s.handleStop)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logMiddleware(mux)
}

// --- Handlers ---

type runResp struct {
	Status          orchestrator.Status `json:"status"`
	ExistingRecords int                 `json:"existing_records"`
	OutputDir       string              `json:"output_dir"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var overlay config.Overlay
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &overlay); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	cfg := overlay.Apply(s.cfg)
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, intents, solutions, rw, err := BuildRun(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.orch.Start(params, intents, solutions, rw); err != nil {
		if errors.Is(err, orchestrator.ErrAlreadyRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, runResp{
		Status:          s.orch.Status(),
		ExistingRecords: writer.CountExisting(cfg.OutputDir),
		OutputDir:       cfg.OutputDir,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.orch.Stop(); err != nil {
		if errors.Is(err, orchestrator.ErrNotRunning) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s.orch.Status())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.orch.Status())
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request",
			"method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start).String())
	})
}
