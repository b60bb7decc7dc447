package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	sessionmetrics "gamemetrics/contexts/telemetry/session-metrics-service"
	domainerrors "gamemetrics/contexts/telemetry/session-metrics-service/domain/errors"
	httptransport "gamemetrics/contexts/telemetry/session-metrics-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "gamemetrics/internal/platform/httpserver/docs"
)

const welcomeMessage = "Welcome to the Metrics Collector API!"

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	metrics sessionmetrics.Module
}

func New(metrics sessionmetrics.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		metrics: metrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /metrics/new_session", s.handleNewSession)
	s.mux.HandleFunc("PUT /metrics/{session_id}", s.handleUpdateMetrics)
	s.mux.HandleFunc("GET /metrics", s.handleListSessions)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req httptransport.NewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.metrics.Handler.NewSessionHandler(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMetrics(w http.ResponseWriter, r *http.Request) {
	var req httptransport.SessionMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	sessionID := r.PathValue("session_id")
	resp, err := s.metrics.Handler.UpdateMetricsHandler(r.Context(), sessionID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.metrics.Handler.ListSessionsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := s.metrics.Handler.HealthHandler(r.Context())
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, httptransport.WelcomeResponse{Message: welcomeMessage})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, httptransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
