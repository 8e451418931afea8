// Package research supplies background snippets used to ground the
// estimator's prompt.
package research

import (
	"fmt"

	"github.com/ajfinson/car-price-estimator/core/types"
)

// Snippets returns research source snippets for a vehicle.
//
// TODO: replace with a real search API (Google Custom Search, Bing,
// SerpAPI); for now these are representative placeholders.
func Snippets(vehicle types.VehicleInput) []types.Source {
	return []types.Source{
		{
			Title: fmt.Sprintf("%d %s %s Fuel Economy", vehicle.Year, vehicle.Make, vehicle.Model),
			URL:   "https://www.fueleconomy.gov/",
			Snippet: fmt.Sprintf("Average fuel consumption for %d %s %s varies between 7-10 L/100km depending on engine and driving conditions.",
				vehicle.Year, vehicle.Make, vehicle.Model),
		},
		{
			Title: fmt.Sprintf("%s %s Maintenance Costs", vehicle.Make, vehicle.Model),
			URL:   "https://www.edmunds.com/",
			Snippet: fmt.Sprintf("Annual maintenance costs for %s %s typically range from $500-$1200, with major services required every 30,000-60,000 km.",
				vehicle.Make, vehicle.Model),
		},
		{
			Title: fmt.Sprintf("%d %s %s Depreciation", vehicle.Year, vehicle.Make, vehicle.Model),
			URL:   "https://www.kbb.com/",
			Snippet: fmt.Sprintf("Vehicles like the %d %s %s typically depreciate 15-20%% per year for the first 5 years, then 5-10%% annually thereafter.",
				vehicle.Year, vehicle.Make, vehicle.Model),
		},
	}
}
