package estimator

import (
	"context"
	"strings"
	"testing"

	"github.com/ajfinson/car-price-estimator/core/types"
)

// stubClient records every Complete call and returns a canned object
type stubClient struct {
	calls []stubCall
	reply map[string]interface{}
	err   error
}

type stubCall struct {
	system      string
	user        string
	temperature float64
}

func (c *stubClient) Complete(_ context.Context, system, user string, temperature float64) (map[string]interface{}, error) {
	c.calls = append(c.calls, stubCall{system: system, user: user, temperature: temperature})
	if c.err != nil {
		return nil, c.err
	}
	return c.reply, nil
}

func stageFixtures() (types.VehicleInput, types.LifetimeWindow, types.Assumptions) {
	vehicle := types.VehicleInput{Make: "Honda", Model: "Civic", Year: 2020}
	window := types.LifetimeWindow{
		VehicleAgeYears: 6,
		CurrentKm:       90000,
		MonthsRemaining: 128,
		EndKm:           250000,
		EndReason:       types.EndReasonMaxKm,
	}
	a := types.Assumptions{KmPerYear: 15000, FuelPricePerLiter: 7.0, MaxYears: 20, MaxKm: 250000}
	return vehicle, window, a
}

func TestGenerationStage(t *testing.T) {
	vehicle, window, a := stageFixtures()
	client := &stubClient{reply: map[string]interface{}{"overallConfidence": "medium"}}

	raw, err := NewGenerationStage(client).Generate(context.Background(), vehicle, window, a, nil, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw["overallConfidence"] != "medium" {
		t.Errorf("raw = %#v", raw)
	}

	if len(client.calls) != 1 {
		t.Fatalf("client called %d times, want 1", len(client.calls))
	}
	call := client.calls[0]
	if call.temperature != GenerationTemperature {
		t.Errorf("temperature = %v, want %v", call.temperature, GenerationTemperature)
	}
	if !strings.Contains(call.user, "Honda") || !strings.Contains(call.user, "128 months") {
		t.Error("generation prompt does not carry the vehicle and window")
	}
}

func TestAuditStageDisabledIsIdentity(t *testing.T) {
	_, window, a := stageFixtures()
	client := &stubClient{reply: map[string]interface{}{"should": "not be returned"}}
	raw := map[string]interface{}{"lifetime": map[string]interface{}{"months": 128.0}}

	out, err := NewAuditStage(client, false).Audit(context.Background(), raw, a, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("disabled audit stage made %d network calls", len(client.calls))
	}
	if out["lifetime"].(map[string]interface{})["months"] != 128.0 {
		t.Errorf("out = %#v, want input unchanged", out)
	}
}

func TestAuditStageFeedsBackPriorResult(t *testing.T) {
	_, window, a := stageFixtures()
	client := &stubClient{reply: map[string]interface{}{"corrected": true}}
	raw := map[string]interface{}{"breakdown": map[string]interface{}{"fuel": 31500.0}}

	out, err := NewAuditStage(client, true).Audit(context.Background(), raw, a, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["corrected"] != true {
		t.Errorf("out = %#v", out)
	}

	if len(client.calls) != 1 {
		t.Fatalf("client called %d times, want 1", len(client.calls))
	}
	call := client.calls[0]
	if call.temperature != AuditTemperature {
		t.Errorf("temperature = %v, want %v", call.temperature, AuditTemperature)
	}
	if !strings.Contains(call.user, `"fuel": 31500`) {
		t.Error("audit prompt does not embed the prior result")
	}
}
