// Package types - Shared domain types for TCO estimation
package types

// VehicleInput identifies the vehicle being estimated
type VehicleInput struct {
	// Make is the manufacturer (e.g., "Toyota")
	Make string `json:"make"`

	// Model is the model name (e.g., "Corolla")
	Model string `json:"model"`

	// Year is the model year
	Year int `json:"year"`
}

// Assumptions are the server-side usage assumptions every estimate is
// computed against. Read-only for the lifetime of a request.
type Assumptions struct {
	// KmPerYear is the assumed average distance driven per year
	KmPerYear int `json:"kmPerYear"`

	// FuelPricePerLiter is the assumed fuel price, in NIS
	FuelPricePerLiter float64 `json:"fuelPricePerLiter"`

	// MaxYears is the age at which a vehicle is considered end-of-life
	MaxYears int `json:"maxYears"`

	// MaxKm is the distance at which a vehicle is considered end-of-life
	MaxKm int `json:"maxKm"`
}

// EndReason indicates which constraint ends the vehicle's lifetime
type EndReason string

const (
	// EndReasonMaxYears means the age limit binds first
	EndReasonMaxYears EndReason = "maxYears"

	// EndReasonMaxKm means the distance limit binds first
	EndReasonMaxKm EndReason = "maxKm"
)

// IsValid reports whether the value is a known end reason
func (r EndReason) IsValid() bool {
	return r == EndReasonMaxYears || r == EndReasonMaxKm
}

// LifetimeWindow is the remaining age/km budget until end-of-life,
// derived once per request and never mutated afterwards.
type LifetimeWindow struct {
	// VehicleAgeYears is currentYear - vehicle.Year; may be negative for
	// future model years
	VehicleAgeYears int `json:"vehicleAgeYears"`

	// CurrentKm is the projected odometer reading today
	CurrentKm int `json:"currentKm"`

	// MonthsRemaining is the remaining lifetime in whole months; >= 0
	MonthsRemaining int `json:"monthsRemaining"`

	// EndKm is the projected odometer reading at end-of-life; <= MaxKm
	EndKm int `json:"endKm"`

	// EndReason is the binding constraint
	EndReason EndReason `json:"endReason"`
}

// Source is a research snippet fed to the estimator for grounding
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}
