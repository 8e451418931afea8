package estimator

import (
	"context"
	"encoding/json"

	"github.com/ajfinson/car-price-estimator/core/prompt"
	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
)

// Generation temperature favors bounded variation; the audit pass runs
// much colder because faithful correction matters more than creativity.
const (
	GenerationTemperature = 0.7
	AuditTemperature      = 0.2
)

// GenerationStage drives the first estimator call: vehicle + window in,
// raw structured estimate out. It does not interpret the JSON shape;
// that is the validator's job.
type GenerationStage struct {
	client      Client
	temperature float64
}

// NewGenerationStage creates a generation stage
func NewGenerationStage(client Client) *GenerationStage {
	return &GenerationStage{
		client:      client,
		temperature: GenerationTemperature,
	}
}

// Generate produces the initial raw estimate. Client failures propagate
// unchanged.
func (s *GenerationStage) Generate(ctx context.Context, vehicle types.VehicleInput, window types.LifetimeWindow, a types.Assumptions, sources []types.Source, currentYear int) (map[string]interface{}, error) {
	system, user := prompt.BuildGenerationPrompt(vehicle, window, a, sources, currentYear)
	return s.client.Complete(ctx, system, user, s.temperature)
}

// AuditStage conditionally drives the second estimator call, feeding
// back the initial result for correction under the same schema. When
// disabled it is the identity function. Its output gets the same
// validator treatment as the generation output; corrected flags are
// never trusted.
type AuditStage struct {
	client      Client
	enabled     bool
	temperature float64
}

// NewAuditStage creates an audit stage
func NewAuditStage(client Client, enabled bool) *AuditStage {
	return &AuditStage{
		client:      client,
		enabled:     enabled,
		temperature: AuditTemperature,
	}
}

// Enabled reports whether the audit pass will run
func (s *AuditStage) Enabled() bool {
	return s.enabled
}

// Audit returns the corrected raw estimate, or the input unchanged when
// the stage is disabled.
func (s *AuditStage) Audit(ctx context.Context, raw map[string]interface{}, a types.Assumptions, window types.LifetimeWindow) (map[string]interface{}, error) {
	if !s.enabled {
		return raw, nil
	}

	prior, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, errors.Internal("failed to serialize prior result for audit", err)
	}

	system, user := prompt.BuildAuditPrompt(string(prior), a, window)
	return s.client.Complete(ctx, system, user, s.temperature)
}
