// Package api provides the REST endpoints for flight crossing records.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"airspace-service/internal/usecase"
	"airspace-service/pkg/logger"
	"airspace-service/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps a create request body
const maxBodyBytes = 10 << 20

// Server exposes the flight endpoints over HTTP
type Server struct {
	flights *usecase.FlightService
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewServer creates a new API server
func NewServer(flights *usecase.FlightService, logger logger.Logger, metrics *metrics.Metrics) *Server {
	return &Server{
		flights: flights,
		logger:  logger,
		metrics: metrics,
	}
}

// Router returns the configured chi router
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Post("/api/flights", s.handleCreateFlights)
	r.Get("/api/flights/latest", s.handleGetLatestFlight)
	r.Get("/api/flights/all", s.handleGetAllFlights)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.flights.Ready(ctx); err != nil {
		s.logger.Warn("Readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
