package api

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
)

const (
	maxNameLength = 50
	minYear       = 1900
)

// validateVehicleInput checks presence and basic shape of the caller's
// vehicle description. Next year's models are allowed.
func validateVehicleInput(v *types.VehicleInput, now time.Time) error {
	if strings.TrimSpace(v.Make) == "" {
		return errors.Input("make is required and cannot be empty")
	}
	if utf8.RuneCountInString(v.Make) > maxNameLength {
		return errors.Newf(errors.TypeInput, "make is too long (max %d characters)", maxNameLength)
	}

	if strings.TrimSpace(v.Model) == "" {
		return errors.Input("model is required and cannot be empty")
	}
	if utf8.RuneCountInString(v.Model) > maxNameLength {
		return errors.Newf(errors.TypeInput, "model is too long (max %d characters)", maxNameLength)
	}

	maxYear := now.Year() + 1
	if v.Year < minYear || v.Year > maxYear {
		return errors.Newf(errors.TypeInput, "year must be between %d and %d", minYear, maxYear)
	}

	return nil
}
