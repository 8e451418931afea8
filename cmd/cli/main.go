package main

import (
	"os"

	"github.com/ajfinson/car-price-estimator/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
