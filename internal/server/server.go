// Package server exposes the assessment pipeline over HTTP for the triage
// UI and the observability scraper.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
	"github.com/mikey/mailrisk/internal/metrics"
)

// Server is the HTTP API surface of the risk core.
type Server struct {
	addr   string
	svc    *core.RiskService
	router chi.Router
	logger *zap.Logger
	http   *http.Server
}

// New creates a server bound to addr, serving assessments from svc.
func New(addr string, svc *core.RiskService, logger *zap.Logger) *Server {
	s := &Server{
		addr:   addr,
		svc:    svc,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/messages/{messageID}/assessment", s.handleAssessment)
	})
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting HTTP server", zap.String("address", s.addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAssessment serves the assessment for one message. A message unknown
// to both lookup paths maps to 404 so the UI can render its "no assessment
// yet" state; everything else the core absorbs internally.
func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if messageID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing message id"})
		return
	}

	assessment, err := s.svc.Assess(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, core.ErrMessageNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "message not found"})
			return
		}
		s.logger.Error("Assessment failed",
			zap.String("message_id", messageID),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
