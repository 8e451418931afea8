// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, pipeline
// orchestration, output serialization. The API NEVER performs
// estimation logic.
package api

import (
	"github.com/ajfinson/car-price-estimator/core/types"
)

// EstimateResponse is the output of POST /api/tco/estimate
type EstimateResponse struct {
	// RequestID correlates logs and responses
	RequestID string `json:"requestId"`

	// Vehicle echoes the estimated vehicle
	Vehicle types.VehicleInput `json:"vehicle"`

	// AssumptionsUsed echoes the server-side assumptions
	AssumptionsUsed types.Assumptions `json:"assumptionsUsed"`

	// SourcesUsed lists the research snippets fed to the estimator
	SourcesUsed []types.Source `json:"sourcesUsed"`

	// Result is the validated estimation result
	Result *types.TcoResult `json:"result"`

	// DurationMs is the total pipeline duration
	DurationMs int64 `json:"durationMs"`
}

// ErrorBody is the error payload for any non-2xx response
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a single failure
type ErrorDetail struct {
	// Code is the machine-readable error kind
	Code string `json:"code"`

	// Message is a human-readable description
	Message string `json:"message"`

	// Retryable hints whether the caller may retry the request
	Retryable bool `json:"retryable"`
}
