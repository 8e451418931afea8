// Package lifetime computes a vehicle's remaining lifetime window.
// The window is the age/km budget left until whichever end-of-life
// constraint binds first: maximum age or maximum distance.
package lifetime

import (
	"github.com/ajfinson/car-price-estimator/core/types"
)

// Compute derives the remaining lifetime window for a vehicle under the
// given assumptions. currentYear is injected so callers control the
// clock. Pure function, no side effects.
//
// A vehicle past its end-of-life yields MonthsRemaining == 0; downstream
// stages must tolerate that without dividing by zero. A future model
// year yields a negative age and is not clamped here.
func Compute(vehicle types.VehicleInput, a types.Assumptions, currentYear int) types.LifetimeWindow {
	ageYears := currentYear - vehicle.Year

	yearsByAge := a.MaxYears - ageYears
	if yearsByAge < 0 {
		yearsByAge = 0
	}

	currentKm := ageYears * a.KmPerYear
	projectedEndKm := currentKm + yearsByAge*a.KmPerYear

	var (
		yearsRemaining float64
		endKm          int
		endReason      types.EndReason
	)

	if projectedEndKm > a.MaxKm {
		// Distance binds first.
		kmRemaining := a.MaxKm - currentKm
		if kmRemaining < 0 {
			kmRemaining = 0
		}
		yearsRemaining = float64(kmRemaining) / float64(a.KmPerYear)
		endKm = a.MaxKm
		endReason = types.EndReasonMaxKm
	} else {
		// Age binds first.
		yearsRemaining = float64(yearsByAge)
		endKm = projectedEndKm
		endReason = types.EndReasonMaxYears
	}

	months := int(yearsRemaining * 12)
	if months < 0 {
		months = 0
	}

	return types.LifetimeWindow{
		VehicleAgeYears: ageYears,
		CurrentKm:       currentKm,
		MonthsRemaining: months,
		EndKm:           endKm,
		EndReason:       endReason,
	}
}
