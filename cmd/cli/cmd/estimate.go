package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ajfinson/car-price-estimator/api"
	"github.com/ajfinson/car-price-estimator/core/engine"
	"github.com/ajfinson/car-price-estimator/core/estimator"
	"github.com/ajfinson/car-price-estimator/core/research"
	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/errors"
)

var (
	estimateMake        string
	estimateModel       string
	estimateYear        int
	estimateNoAudit     bool
	estimateAssumptions string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate lifetime TCO for a single vehicle",
	Long: `Estimate runs the full pipeline for one vehicle and prints the
validated result as JSON.

The server-side assumptions (annual mileage, fuel price, lifetime caps)
come from the config file and environment; individual values can be
overridden with an assumptions file:

  tco estimate --make Toyota --model Corolla --year 2021 \
      --assumptions assumptions.yml

where assumptions.yml contains any subset of:

  kmPerYear: 12000
  fuelPricePerLiter: 7.4
  maxYears: 18
  maxKm: 220000`,
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVar(&estimateMake, "make", "", "vehicle make (required)")
	estimateCmd.Flags().StringVar(&estimateModel, "model", "", "vehicle model (required)")
	estimateCmd.Flags().IntVar(&estimateYear, "year", 0, "vehicle model year (required)")
	estimateCmd.Flags().BoolVar(&estimateNoAudit, "no-audit", false, "skip the second, corrective estimator pass")
	estimateCmd.Flags().StringVar(&estimateAssumptions, "assumptions", "", "YAML file with assumption overrides")

	estimateCmd.MarkFlagRequired("make")
	estimateCmd.MarkFlagRequired("model")
	estimateCmd.MarkFlagRequired("year")
}

// assumptionsFile is the YAML override format. All fields are optional;
// absent fields keep their configured values.
type assumptionsFile struct {
	KmPerYear         *int     `yaml:"kmPerYear"`
	FuelPricePerLiter *float64 `yaml:"fuelPricePerLiter"`
	MaxYears          *int     `yaml:"maxYears"`
	MaxKm             *int     `yaml:"maxKm"`
}

func loadAssumptionOverrides(path string, base types.Assumptions) (types.Assumptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrapf(errors.TypeConfig, err, "reading assumptions file %s", path)
	}

	var overrides assumptionsFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return base, errors.Wrapf(errors.TypeConfig, err, "parsing assumptions file %s", path)
	}

	if overrides.KmPerYear != nil {
		base.KmPerYear = *overrides.KmPerYear
	}
	if overrides.FuelPricePerLiter != nil {
		base.FuelPricePerLiter = *overrides.FuelPricePerLiter
	}
	if overrides.MaxYears != nil {
		base.MaxYears = *overrides.MaxYears
	}
	if overrides.MaxKm != nil {
		base.MaxKm = *overrides.MaxKm
	}
	return base, nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	vehicle := types.VehicleInput{
		Make:  estimateMake,
		Model: estimateModel,
		Year:  estimateYear,
	}

	assumptions := cfg.Assumptions
	if estimateAssumptions != "" {
		var err error
		assumptions, err = loadAssumptionOverrides(estimateAssumptions, assumptions)
		if err != nil {
			return err
		}
	}

	auditEnabled := cfg.Estimator.AuditEnabled && !estimateNoAudit

	client := estimator.NewOpenAIClient(estimator.OpenAIConfig{
		APIKey:  cfg.Estimator.APIKey,
		BaseURL: cfg.Estimator.BaseURL,
		Model:   cfg.Estimator.Model,
		Timeout: cfg.Estimator.Timeout(),
	})
	service := engine.NewService(client, assumptions, auditEnabled)

	start := time.Now()
	result, err := service.Estimate(context.Background(), vehicle)
	if err != nil {
		return err
	}

	envelope := api.EstimateResponse{
		RequestID:       uuid.New().String(),
		Vehicle:         vehicle,
		AssumptionsUsed: assumptions,
		SourcesUsed:     research.Snippets(vehicle),
		Result:          result,
		DurationMs:      time.Since(start).Milliseconds(),
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
