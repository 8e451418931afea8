package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
)

// validResultJSON is a fully self-consistent estimator result:
// maintenance 8000 = 5000+3000 (mid), fees 2000, total 80000 =
// 40000+30000+8000+2000, costPerMonth 571.43 = 80000/140.
const validResultJSON = `{
  "lifetime": {"months": 140, "endReason": "maxKm", "totalCost": 80000, "costPerMonth": 571.43},
  "breakdown": {"depreciation": 40000, "fuel": 30000, "maintenance": 8000, "fees": 2000},
  "timeline": [
    {"item": "Brake pads", "category": "wear",
     "trigger": {"ageYears": null, "km": 100000},
     "window": {"kmMin": 90000, "kmMax": 110000, "ageMin": null, "ageMax": null},
     "description": "Front brake pad replacement", "cost": {"low": 4000, "mid": 5000, "high": 6500},
     "confidence": "high", "notes": ["wear item"]},
    {"item": "Timing service", "category": "scheduled",
     "trigger": {"ageYears": null, "km": 160000},
     "window": {"kmMin": null, "kmMax": null, "ageMin": null, "ageMax": null},
     "description": "Major scheduled service", "cost": {"low": 2500, "mid": 3000, "high": 4000},
     "confidence": "medium", "notes": []},
    {"item": "Annual registration", "category": "fees",
     "trigger": {"ageYears": 10, "km": null},
     "window": {"kmMin": null, "kmMax": null, "ageMin": null, "ageMax": null},
     "description": "Registration and road fees over the lifetime", "cost": {"low": 1800, "mid": 2000, "high": 2200},
     "confidence": "high", "notes": []}
  ],
  "audit": {"timelineSorted": false, "totalsConsistent": false, "maintenanceMatchesTimelineMid": false, "flags": ["estimator claims"]},
  "overallConfidence": "medium"
}`

func rawFromJSON(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func fptr(f float64) *float64 { return &f }

func TestFinalizeConsistentResult(t *testing.T) {
	result, err := Finalize(rawFromJSON(t, validResultJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The estimator's own audit claims must be overwritten with the
	// recomputed verdicts.
	if !result.Audit.TimelineSorted {
		t.Error("TimelineSorted = false, want true")
	}
	if !result.Audit.TotalsConsistent {
		t.Error("TotalsConsistent = false, want true")
	}
	if !result.Audit.MaintenanceMatchesTimelineMid {
		t.Error("MaintenanceMatchesTimelineMid = false, want true")
	}
	if len(result.Audit.Flags) != 0 {
		t.Errorf("Flags = %v, want none", result.Audit.Flags)
	}

	if result.Lifetime.Months != 140 {
		t.Errorf("Months = %d, want 140", result.Lifetime.Months)
	}
	if result.OverallConfidence != types.ConfidenceMedium {
		t.Errorf("OverallConfidence = %s", result.OverallConfidence)
	}
	if len(result.Timeline) != 3 {
		t.Fatalf("Timeline length = %d, want 3", len(result.Timeline))
	}
	if result.Timeline[0].Trigger.AgeYears != nil {
		t.Error("null trigger.ageYears should bind to nil")
	}
	if result.Timeline[0].Trigger.Km == nil || *result.Timeline[0].Trigger.Km != 100000 {
		t.Error("trigger.km did not bind")
	}
}

// TestFinalizeMaintenanceMismatch is the deliberate off-by-100
// scenario: validation failure is advisory, not fatal.
func TestFinalizeMaintenanceMismatch(t *testing.T) {
	bad := strings.Replace(validResultJSON, `"maintenance": 8000`, `"maintenance": 8100`, 1)
	// Keep totals consistent with the declared (wrong) maintenance so
	// only the category-sum check fires: 40000+30000+8100+2000 = 80100.
	bad = strings.Replace(bad, `"totalCost": 80000`, `"totalCost": 80100`, 1)
	bad = strings.Replace(bad, `"costPerMonth": 571.43`, `"costPerMonth": 572.14`, 1)

	result, err := Finalize(rawFromJSON(t, bad))
	if err != nil {
		t.Fatalf("advisory mismatch must not fail finalization: %v", err)
	}

	if result.Audit.MaintenanceMatchesTimelineMid {
		t.Error("MaintenanceMatchesTimelineMid = true, want false")
	}
	if result.Audit.TotalsConsistent != true {
		t.Error("TotalsConsistent = false, want true")
	}

	found := false
	for _, f := range result.Audit.Flags {
		if strings.Contains(f, "maintenance") && strings.Contains(f, "8100") {
			found = true
		}
	}
	if !found {
		t.Errorf("no descriptive maintenance flag in %v", result.Audit.Flags)
	}
}

func TestFinalizeTotalsMismatch(t *testing.T) {
	bad := strings.Replace(validResultJSON, `"totalCost": 80000`, `"totalCost": 95000`, 1)

	result, err := Finalize(rawFromJSON(t, bad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Audit.TotalsConsistent {
		t.Error("TotalsConsistent = true, want false")
	}
	if result.Audit.MaintenanceMatchesTimelineMid != true {
		t.Error("category sums should still match")
	}
	if len(result.Audit.Flags) == 0 {
		t.Error("expected descriptive flags")
	}
}

// A zero-month lifetime treats the per-month comparison as trivially
// satisfied while still checking the breakdown sum.
func TestFinalizeZeroMonths(t *testing.T) {
	raw := rawFromJSON(t, validResultJSON)
	lifetime := raw["lifetime"].(map[string]interface{})
	lifetime["months"] = 0.0
	lifetime["costPerMonth"] = 12345.0 // nonsense, but incomparable at 0 months

	result, err := Finalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Audit.TotalsConsistent {
		t.Errorf("TotalsConsistent = false, want true; flags = %v", result.Audit.Flags)
	}
}

// Negative numbers anywhere in the tree are clamped before any check.
func TestFinalizeClampsNegatives(t *testing.T) {
	bad := strings.Replace(validResultJSON, `"fuel": 30000`, `"fuel": -30000`, 1)

	result, err := Finalize(rawFromJSON(t, bad))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Breakdown.Fuel != 0 {
		t.Errorf("Fuel = %v, want clamped to 0", result.Breakdown.Fuel)
	}
	// With fuel clamped to 0 the declared total no longer adds up.
	if result.Audit.TotalsConsistent {
		t.Error("TotalsConsistent = true after clamping changed the sum")
	}
}

func TestFinalizeInvertedCostRangeIsFlagged(t *testing.T) {
	bad := strings.Replace(validResultJSON, `{"low": 4000, "mid": 5000, "high": 6500}`, `{"low": 6000, "mid": 5000, "high": 6500}`, 1)

	result, err := Finalize(rawFromJSON(t, bad))
	if err != nil {
		t.Fatalf("inverted range must not fail finalization: %v", err)
	}
	found := false
	for _, f := range result.Audit.Flags {
		if strings.Contains(f, "inverted cost range") && strings.Contains(f, "Brake pads") {
			found = true
		}
	}
	if !found {
		t.Errorf("no inverted-range flag in %v", result.Audit.Flags)
	}
}

// TestFinalizeSchemaViolations checks that structural problems are
// fatal and distinct from transport errors.
func TestFinalizeSchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{
			name:   "missing breakdown",
			mutate: func(m map[string]interface{}) { delete(m, "breakdown") },
		},
		{
			name: "unknown category",
			mutate: func(m map[string]interface{}) {
				item := m["timeline"].([]interface{})[0].(map[string]interface{})
				item["category"] = "cosmetic"
			},
		},
		{
			name: "unknown confidence",
			mutate: func(m map[string]interface{}) {
				m["overallConfidence"] = "certain"
			},
		},
		{
			name: "fractional months",
			mutate: func(m map[string]interface{}) {
				m["lifetime"].(map[string]interface{})["months"] = 140.5
			},
		},
		{
			name: "unknown end reason",
			mutate: func(m map[string]interface{}) {
				m["lifetime"].(map[string]interface{})["endReason"] = "totaled"
			},
		},
		{
			name: "string where number expected",
			mutate: func(m map[string]interface{}) {
				m["breakdown"].(map[string]interface{})["fuel"] = "lots"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawFromJSON(t, validResultJSON)
			tt.mutate(raw)

			_, err := Finalize(raw)
			if !errors.IsType(err, errors.TypeSchemaViolation) {
				t.Fatalf("error = %v, want SCHEMA_VIOLATION", err)
			}
		})
	}
}

// TestTimelineSorted is the sortedness truth table.
func TestTimelineSorted(t *testing.T) {
	item := func(km, age *float64) types.TimelineItem {
		return types.TimelineItem{Trigger: types.Trigger{Km: km, AgeYears: age}}
	}

	tests := []struct {
		name  string
		items []types.TimelineItem
		want  bool
	}{
		{"empty timeline", nil, true},
		{"single item", []types.TimelineItem{item(fptr(1000), nil)}, true},
		{
			"ascending km",
			[]types.TimelineItem{item(fptr(1000), nil), item(fptr(2000), nil), item(fptr(2000), nil)},
			true,
		},
		{
			"regressing km",
			[]types.TimelineItem{item(fptr(5000), nil), item(fptr(2000), nil)},
			false,
		},
		{
			"age fallback when km absent",
			[]types.TimelineItem{item(nil, fptr(2)), item(nil, fptr(5))},
			true,
		},
		{
			"regressing age fallback",
			[]types.TimelineItem{item(nil, fptr(5)), item(nil, fptr(2))},
			false,
		},
		{
			"km preferred over age",
			[]types.TimelineItem{item(fptr(1000), fptr(9)), item(fptr(2000), fptr(1))},
			true,
		},
		{
			"incomparable pair does not block",
			[]types.TimelineItem{item(fptr(5000), nil), item(nil, fptr(2)), item(fptr(1000), nil)},
			true,
		},
		{
			"regression after incomparable pair still detected",
			[]types.TimelineItem{item(nil, nil), item(fptr(5000), nil), item(fptr(1000), nil)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimelineSorted(tt.items); got != tt.want {
				t.Errorf("TimelineSorted() = %v, want %v", got, tt.want)
			}
		})
	}
}
