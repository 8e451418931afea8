package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajfinson/car-price-estimator/core/research"
	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
	"github.com/ajfinson/car-price-estimator/internal/logging"
)

// Estimator is the pipeline surface the API depends on; substitutable
// for tests.
type Estimator interface {
	Estimate(ctx context.Context, vehicle types.VehicleInput) (*types.TcoResult, error)
	Assumptions() types.Assumptions
}

// Server is the API server
type Server struct {
	estimator Estimator
	mux       *http.ServeMux
	version   string
	now       func() time.Time
}

// NewServer creates a new API server
func NewServer(estimator Estimator, version string) *Server {
	s := &Server{
		estimator: estimator,
		mux:       http.NewServeMux(),
		version:   version,
		now:       time.Now,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/tco/estimate", s.handleEstimate)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
}

// handleEstimate handles POST /api/tco/estimate
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := s.now()
	requestID := uuid.NewString()

	var vehicle types.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		s.writeError(w, requestID, errors.Wrap(errors.TypeInput, "invalid JSON body", err))
		return
	}

	if err := validateVehicleInput(&vehicle, s.now()); err != nil {
		s.writeError(w, requestID, err)
		return
	}

	result, err := s.estimator.Estimate(ctx, vehicle)
	if err != nil {
		logging.Error("estimate failed",
			zap.String("request_id", requestID),
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err))
		s.writeError(w, requestID, err)
		return
	}

	s.writeJSON(w, &EstimateResponse{
		RequestID:       requestID,
		Vehicle:         vehicle,
		AssumptionsUsed: s.estimator.Assumptions(),
		SourcesUsed:     research.Snippets(vehicle),
		Result:          result,
		DurationMs:      time.Since(start).Milliseconds(),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    s.now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"message": "Car Lifetime TCO API",
		"version": s.version,
		"endpoints": map[string]string{
			"estimate": "POST /api/tco/estimate",
		},
	}, http.StatusOK)
}

// statusFor maps error kinds to HTTP statuses. Distinct codes let a
// caller tell "the estimator is unreachable" apart from "the estimator
// replied with garbage".
func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInput:
		return http.StatusBadRequest
	case errors.TypeConfig:
		return http.StatusInternalServerError
	case errors.TypeEstimatorUnavailable, errors.TypeQuotaExhausted:
		return http.StatusServiceUnavailable
	case errors.TypeRateLimited:
		return http.StatusTooManyRequests
	case errors.TypeTransient, errors.TypeMalformedResponse, errors.TypeSchemaViolation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID string, err error) {
	t := errors.TypeOf(err)
	w.Header().Set("X-Request-Id", requestID)
	s.writeJSON(w, &ErrorBody{
		Error: ErrorDetail{
			Code:      string(t),
			Message:   err.Error(),
			Retryable: errors.Retryable(err),
		},
	}, statusFor(t))
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ServeHTTP implements http.Handler with permissive CORS, matching the
// original deployment.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	logging.Info("API server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}
