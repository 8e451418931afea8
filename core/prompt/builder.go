// Package prompt renders the estimator prompts.
// Builders are pure string-in/string-out functions; they never touch
// the network and are unit-testable without a live estimator.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ajfinson/car-price-estimator/core/types"
)

// resultShape is the literal JSON shape the estimator must return,
// embedded verbatim in both prompts.
const resultShape = `{
  "lifetime": {"months": <int>, "endReason": "maxYears" | "maxKm", "totalCost": <number>, "costPerMonth": <number>},
  "breakdown": {"depreciation": <number>, "fuel": <number>, "maintenance": <number>, "fees": <number>},
  "timeline": [
    {"item": <string>, "category": "scheduled" | "wear" | "failure-driven" | "fees",
     "trigger": {"ageYears": <number or null>, "km": <number or null>},
     "window": {"kmMin": <number or null>, "kmMax": <number or null>, "ageMin": <number or null>, "ageMax": <number or null>},
     "description": <string>, "cost": {"low": <number>, "mid": <number>, "high": <number>},
     "confidence": "low" | "medium" | "high", "notes": [<string>, ...]}
  ],
  "audit": {"timelineSorted": <bool>, "totalsConsistent": <bool>, "maintenanceMatchesTimelineMid": <bool>, "flags": [<string>, ...]},
  "overallConfidence": "low" | "medium" | "high"
}`

// mathConstraints are the five invariants the estimator must honor.
const mathConstraints = `Math constraints (MUST hold exactly):
1. breakdown.maintenance = sum of cost.mid over timeline items with category "scheduled", "wear" or "failure-driven"
2. breakdown.fees = sum of cost.mid over timeline items with category "fees"
3. lifetime.totalCost = breakdown.depreciation + breakdown.fuel + breakdown.maintenance + breakdown.fees
4. lifetime.costPerMonth = lifetime.totalCost / lifetime.months (0 if months is 0)
5. Every numeric field is >= 0`

const generationSystem = "You are a precise car cost estimation assistant. Always respond with a single valid JSON object and nothing else."

const auditSystem = "You are a meticulous numeric auditor. Always respond with a single valid JSON object and nothing else."

// BuildGenerationPrompt renders the generation system/user prompt pair
// for a vehicle and its computed lifetime window.
func BuildGenerationPrompt(vehicle types.VehicleInput, window types.LifetimeWindow, a types.Assumptions, sources []types.Source, currentYear int) (system, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a car cost estimation expert. Calculate the total cost of ownership (TCO) for the following vehicle over its remaining lifetime.\n\n")

	fmt.Fprintf(&b, "Vehicle Information:\n")
	fmt.Fprintf(&b, "- Make: %s\n", vehicle.Make)
	fmt.Fprintf(&b, "- Model: %s\n", vehicle.Model)
	fmt.Fprintf(&b, "- Year: %d\n", vehicle.Year)
	fmt.Fprintf(&b, "- Current Year: %d\n", currentYear)
	fmt.Fprintf(&b, "- Vehicle Age: %d years\n\n", window.VehicleAgeYears)

	fmt.Fprintf(&b, "Lifetime Calculation Rules:\n")
	fmt.Fprintf(&b, "- The lifetime ends at whichever comes first: %d years total age OR %d km total\n", a.MaxYears, a.MaxKm)
	fmt.Fprintf(&b, "- Estimated current odometer: %d km\n", window.CurrentKm)
	fmt.Fprintf(&b, "- Projected odometer at end of lifetime: %d km (end reason: %s)\n", window.EndKm, window.EndReason)
	fmt.Fprintf(&b, "- Duration to estimate: %d months\n\n", window.MonthsRemaining)

	fmt.Fprintf(&b, "Server Assumptions (MUST USE THESE):\n")
	fmt.Fprintf(&b, "- Average km driven per year: %d km\n", a.KmPerYear)
	fmt.Fprintf(&b, "- Fuel price per liter: ₪%.2f\n", a.FuelPricePerLiter)
	fmt.Fprintf(&b, "- Maximum vehicle age: %d years\n", a.MaxYears)
	fmt.Fprintf(&b, "- Maximum km: %d km\n\n", a.MaxKm)

	if len(sources) > 0 {
		fmt.Fprintf(&b, "Research Sources:\n")
		for _, s := range sources {
			fmt.Fprintf(&b, "- %s: %s (Source: %s)\n", s.Title, s.Snippet, s.URL)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Produce a maintenance/fees timeline covering the remaining lifetime, plus the four-way cost breakdown (depreciation, fuel, maintenance, fees). Sort the timeline chronologically by trigger km, falling back to trigger age.\n\n")

	fmt.Fprintf(&b, "%s\n\n", mathConstraints)

	fmt.Fprintf(&b, "Echo lifetime.months=%d and lifetime.endReason=%q exactly as given.\n\n", window.MonthsRemaining, window.EndReason)

	fmt.Fprintf(&b, "YOU MUST RESPOND WITH VALID JSON ONLY. NO MARKDOWN. NO EXPLANATIONS OUTSIDE THE JSON.\nUse this exact structure:\n\n%s\n\nAll costs in NIS.\n", resultShape)

	return generationSystem, b.String()
}

// BuildAuditPrompt renders the audit system/user prompt pair. The prior
// result JSON is embedded verbatim; the estimator is asked to return a
// corrected version under the same schema.
func BuildAuditPrompt(priorResultJSON string, a types.Assumptions, window types.LifetimeWindow) (system, user string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Below is a vehicle TCO estimate produced earlier. Audit it and return a corrected version under the exact same JSON structure.\n\n")
	fmt.Fprintf(&b, "Prior estimate:\n%s\n\n", priorResultJSON)

	fmt.Fprintf(&b, "Audit instructions:\n")
	fmt.Fprintf(&b, "1. Re-sort the timeline by trigger.km ascending, falling back to trigger.ageYears where km is absent.\n")
	fmt.Fprintf(&b, "2. Recompute breakdown.maintenance and breakdown.fees from the timeline cost.mid sums and fix any mismatch.\n")
	fmt.Fprintf(&b, "3. Recompute lifetime.totalCost as the sum of the four breakdown fields and lifetime.costPerMonth as totalCost / %d (0 if months is 0).\n", window.MonthsRemaining)
	fmt.Fprintf(&b, "4. Clamp any negative number to 0.\n")
	fmt.Fprintf(&b, "5. Cap trigger and window values: km values at %d, age values at %d years.\n", a.MaxKm, a.MaxYears)
	fmt.Fprintf(&b, "6. Set audit.timelineSorted, audit.totalsConsistent and audit.maintenanceMatchesTimelineMid to reflect the corrected data, and describe every correction you made in audit.flags.\n\n")

	fmt.Fprintf(&b, "%s\n\n", mathConstraints)

	fmt.Fprintf(&b, "YOU MUST RESPOND WITH VALID JSON ONLY. NO MARKDOWN. NO EXPLANATIONS OUTSIDE THE JSON.\nUse this exact structure:\n\n%s\n", resultShape)

	return auditSystem, b.String()
}
