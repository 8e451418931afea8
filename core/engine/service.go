// Package engine composes the estimation pipeline.
// Fixed sequence: lifetime window -> generation call -> optional audit
// call -> deterministic validation. Any stage failure short-circuits
// the rest; no retries, no partial results.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajfinson/car-price-estimator/core/estimator"
	"github.com/ajfinson/car-price-estimator/core/lifetime"
	"github.com/ajfinson/car-price-estimator/core/research"
	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/core/validate"
	"github.com/ajfinson/car-price-estimator/internal/logging"
)

// Service is the TCO estimation orchestrator. All dependencies are
// injected; the service holds no mutable per-request state and is safe
// for concurrent use.
type Service struct {
	assumptions types.Assumptions
	generation  *estimator.GenerationStage
	audit       *estimator.AuditStage
	now         func() time.Time
}

// NewService creates a service with the real clock
func NewService(client estimator.Client, assumptions types.Assumptions, auditEnabled bool) *Service {
	return NewServiceWithClock(client, assumptions, auditEnabled, time.Now)
}

// NewServiceWithClock creates a service with an injected clock, for
// deterministic tests
func NewServiceWithClock(client estimator.Client, assumptions types.Assumptions, auditEnabled bool, now func() time.Time) *Service {
	return &Service{
		assumptions: assumptions,
		generation:  estimator.NewGenerationStage(client),
		audit:       estimator.NewAuditStage(client, auditEnabled),
		now:         now,
	}
}

// Assumptions returns the assumptions estimates are computed against
func (s *Service) Assumptions() types.Assumptions {
	return s.assumptions
}

// AuditEnabled reports whether the audit pass runs
func (s *Service) AuditEnabled() bool {
	return s.audit.Enabled()
}

// Estimate runs the full pipeline for one vehicle. On failure the
// tagged error of the failing stage propagates undecorated and no
// result is returned.
func (s *Service) Estimate(ctx context.Context, vehicle types.VehicleInput) (*types.TcoResult, error) {
	currentYear := s.now().Year()
	window := lifetime.Compute(vehicle, s.assumptions, currentYear)
	sources := research.Snippets(vehicle)

	logging.Info("estimating vehicle TCO",
		zap.String("make", vehicle.Make),
		zap.String("model", vehicle.Model),
		zap.Int("year", vehicle.Year),
		zap.Int("months_remaining", window.MonthsRemaining),
		zap.String("end_reason", string(window.EndReason)))

	raw, err := s.generation.Generate(ctx, vehicle, window, s.assumptions, sources, currentYear)
	if err != nil {
		return nil, err
	}

	raw, err = s.audit.Audit(ctx, raw, s.assumptions, window)
	if err != nil {
		return nil, err
	}

	result, err := validate.Finalize(raw)
	if err != nil {
		return nil, err
	}

	logging.Info("estimate complete",
		zap.Float64("total_cost", result.Lifetime.TotalCost),
		zap.Bool("totals_consistent", result.Audit.TotalsConsistent),
		zap.Int("timeline_items", len(result.Timeline)),
		zap.Int("flags", len(result.Audit.Flags)))

	return result, nil
}
