package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/shopspring/decimal"

	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
)

//go:embed tco_result.schema.json
var resultSchemaJSON []byte

var resultSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(resultSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded result schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tco_result.schema.json", doc); err != nil {
		panic(fmt.Sprintf("failed to register result schema: %v", err))
	}
	schema, err := compiler.Compile("tco_result.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile result schema: %v", err))
	}
	return schema
}

// tolerance is the absolute slack allowed when comparing declared
// against recomputed totals: 1 currency unit. Estimator arithmetic is
// LLM-sourced, so exact floating equality would be meaningless.
var tolerance = decimal.NewFromInt(1)

// Finalize runs the full deterministic pass over a raw estimator
// result: clamp negatives, validate the shape, bind to the typed
// result, and overwrite the audit block with recomputed verdicts.
// Mismatches are advisory (flags), never fatal; only a shape violation
// fails.
func Finalize(raw map[string]interface{}) (*types.TcoResult, error) {
	clamped, ok := Clamp(raw).(map[string]interface{})
	if !ok {
		return nil, errors.Schema("estimator result is not a JSON object", nil)
	}

	if err := resultSchema.Validate(clamped); err != nil {
		return nil, errors.Schema("estimator result does not match the contract", err)
	}

	data, err := json.Marshal(clamped)
	if err != nil {
		return nil, errors.Internal("failed to serialize clamped result", err)
	}
	var result types.TcoResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Schema("estimator result does not bind to the typed form", err)
	}

	var flags []string

	sorted := TimelineSorted(result.Timeline)
	if !sorted {
		flags = append(flags, "timeline is not sorted by trigger km/age")
	}

	totalsOK, totalsFlags := checkTotals(result.Lifetime, result.Breakdown)
	flags = append(flags, totalsFlags...)

	maintOK, maintFlags := checkCategorySums(result.Breakdown, result.Timeline)
	flags = append(flags, maintFlags...)

	flags = append(flags, costRangeFlags(result.Timeline)...)

	result.Audit = types.AuditBlock{
		TimelineSorted:                sorted,
		TotalsConsistent:              totalsOK,
		MaintenanceMatchesTimelineMid: maintOK,
		Flags:                         flags,
	}

	return &result, nil
}

// TimelineSorted reports whether no adjacent comparable pair regresses.
// Pairs are compared by trigger km when both items carry one, falling
// back to trigger age; a pair with neither comparable field does not
// block sortedness. Empty and single-item timelines are sorted.
func TimelineSorted(items []types.TimelineItem) bool {
	for i := 0; i+1 < len(items); i++ {
		cur, next := items[i].Trigger, items[i+1].Trigger

		switch {
		case cur.Km != nil && next.Km != nil:
			if *cur.Km > *next.Km {
				return false
			}
		case cur.AgeYears != nil && next.AgeYears != nil:
			if *cur.AgeYears > *next.AgeYears {
				return false
			}
		}
	}
	return true
}

// checkTotals recomputes the declared total against the breakdown sum
// and the per-month figure. Depreciation and fuel come from the
// breakdown as declared; the pipeline cannot independently verify
// those. A zero-month lifetime satisfies the per-month comparison
// trivially.
func checkTotals(lifetime types.Lifetime, b types.Breakdown) (bool, []string) {
	var flags []string

	expectedTotal := decimal.NewFromFloat(b.Depreciation).
		Add(decimal.NewFromFloat(b.Fuel)).
		Add(decimal.NewFromFloat(b.Maintenance)).
		Add(decimal.NewFromFloat(b.Fees))
	declaredTotal := decimal.NewFromFloat(lifetime.TotalCost)

	ok := withinTolerance(declaredTotal, expectedTotal)
	if !ok {
		flags = append(flags, fmt.Sprintf(
			"declared totalCost %s does not match breakdown sum %s",
			declaredTotal.StringFixed(2), expectedTotal.StringFixed(2)))
	}

	if lifetime.Months > 0 {
		expectedPerMonth := declaredTotal.Div(decimal.NewFromInt(int64(lifetime.Months)))
		declaredPerMonth := decimal.NewFromFloat(lifetime.CostPerMonth)
		if !withinTolerance(declaredPerMonth, expectedPerMonth) {
			ok = false
			flags = append(flags, fmt.Sprintf(
				"declared costPerMonth %s does not match totalCost/%d = %s",
				declaredPerMonth.StringFixed(2), lifetime.Months, expectedPerMonth.StringFixed(2)))
		}
	}

	return ok, flags
}

// checkCategorySums recomputes the maintenance and fees sums from the
// timeline mid costs and compares them to the declared breakdown.
func checkCategorySums(b types.Breakdown, items []types.TimelineItem) (bool, []string) {
	var flags []string

	maintenanceSum := decimal.Zero
	feesSum := decimal.Zero
	for _, item := range items {
		mid := decimal.NewFromFloat(item.Cost.Mid)
		if item.Category.IsMaintenance() {
			maintenanceSum = maintenanceSum.Add(mid)
		} else if item.Category == types.CategoryFees {
			feesSum = feesSum.Add(mid)
		}
	}

	ok := true
	if !withinTolerance(decimal.NewFromFloat(b.Maintenance), maintenanceSum) {
		ok = false
		flags = append(flags, fmt.Sprintf(
			"declared maintenance %s does not match timeline mid sum %s",
			decimal.NewFromFloat(b.Maintenance).StringFixed(2), maintenanceSum.StringFixed(2)))
	}
	if !withinTolerance(decimal.NewFromFloat(b.Fees), feesSum) {
		ok = false
		flags = append(flags, fmt.Sprintf(
			"declared fees %s does not match timeline mid sum %s",
			decimal.NewFromFloat(b.Fees).StringFixed(2), feesSum.StringFixed(2)))
	}

	return ok, flags
}

// costRangeFlags reports timeline items whose low/mid/high ordering is
// inverted. Advisory only; an inverted range does not fail validation.
func costRangeFlags(items []types.TimelineItem) []string {
	var flags []string
	for _, item := range items {
		if item.Cost.Low > item.Cost.Mid || item.Cost.Mid > item.Cost.High {
			flags = append(flags, fmt.Sprintf(
				"timeline item %q has an inverted cost range (low %.2f, mid %.2f, high %.2f)",
				item.Item, item.Cost.Low, item.Cost.Mid, item.Cost.High))
		}
	}
	return flags
}

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
