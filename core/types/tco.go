// Package types - Estimator result types
// These mirror the literal JSON shape the estimator is contracted to
// return. The pipeline reads and audits them; it never invents items.
package types

// Category classifies a timeline item
type Category string

const (
	CategoryScheduled     Category = "scheduled"
	CategoryWear          Category = "wear"
	CategoryFailureDriven Category = "failure-driven"
	CategoryFees          Category = "fees"
)

// IsValid reports whether the value is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryScheduled, CategoryWear, CategoryFailureDriven, CategoryFees:
		return true
	}
	return false
}

// IsMaintenance reports whether the category counts toward the
// maintenance breakdown sum (everything except fees)
func (c Category) IsMaintenance() bool {
	return c == CategoryScheduled || c == CategoryWear || c == CategoryFailureDriven
}

// Confidence is the estimator's self-reported confidence level
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// IsValid reports whether the value is a known confidence level
func (c Confidence) IsValid() bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// Trigger is the point at which a timeline item becomes due. Either
// field may be absent independently.
type Trigger struct {
	AgeYears *float64 `json:"ageYears"`
	Km       *float64 `json:"km"`
}

// Window is an optional applicability range for a timeline item
type Window struct {
	KmMin  *float64 `json:"kmMin"`
	KmMax  *float64 `json:"kmMax"`
	AgeMin *float64 `json:"ageMin"`
	AgeMax *float64 `json:"ageMax"`
}

// CostRange is a low/mid/high cost estimate for one item. The mid
// value is what breakdown sums are recomputed from.
type CostRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// TimelineItem is one maintenance/fee event over the remaining lifetime
type TimelineItem struct {
	// Item is a short name (e.g., "Timing belt replacement")
	Item string `json:"item"`

	// Category classifies the item for breakdown sums
	Category Category `json:"category"`

	// Trigger is when the item becomes due
	Trigger Trigger `json:"trigger"`

	// Window is the applicability range, if any
	Window Window `json:"window"`

	// Description explains the item
	Description string `json:"description"`

	// Cost is the estimated cost range
	Cost CostRange `json:"cost"`

	// Confidence is the estimator's confidence for this item
	Confidence Confidence `json:"confidence"`

	// Notes are free-text annotations
	Notes []string `json:"notes"`
}

// Breakdown is the four-way cost decomposition. Maintenance and fees
// must equal the recomputed timeline sums; depreciation and fuel are
// estimator-only figures the pipeline cannot independently verify.
type Breakdown struct {
	Depreciation float64 `json:"depreciation"`
	Fuel         float64 `json:"fuel"`
	Maintenance  float64 `json:"maintenance"`
	Fees         float64 `json:"fees"`
}

// Lifetime summarizes the remaining lifetime and its total cost
type Lifetime struct {
	// Months is the remaining lifetime in whole months
	Months int `json:"months"`

	// EndReason is the binding end-of-life constraint
	EndReason EndReason `json:"endReason"`

	// TotalCost is the declared total; must equal the breakdown sum
	TotalCost float64 `json:"totalCost"`

	// CostPerMonth is TotalCost / Months, or 0 when Months is 0
	CostPerMonth float64 `json:"costPerMonth"`
}

// AuditBlock carries the recomputed consistency verdicts. The
// estimator's own claims here are never trusted; the validator
// overwrites every field.
type AuditBlock struct {
	// TimelineSorted reports whether no adjacent comparable pair regresses
	TimelineSorted bool `json:"timelineSorted"`

	// TotalsConsistent reports whether totalCost and costPerMonth match
	// the recomputed figures within tolerance
	TotalsConsistent bool `json:"totalsConsistent"`

	// MaintenanceMatchesTimelineMid reports whether the declared
	// maintenance and fees match the recomputed timeline sums
	MaintenanceMatchesTimelineMid bool `json:"maintenanceMatchesTimelineMid"`

	// Flags are advisory human-readable descriptions of detected
	// mismatches; never used for control flow
	Flags []string `json:"flags"`
}

// TcoResult is the single artifact returned to the caller.
// Constructed once, immutable thereafter.
type TcoResult struct {
	Lifetime          Lifetime       `json:"lifetime"`
	Breakdown         Breakdown      `json:"breakdown"`
	Timeline          []TimelineItem `json:"timeline"`
	Audit             AuditBlock     `json:"audit"`
	OverallConfidence Confidence     `json:"overallConfidence"`
}
