package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajfinson/car-price-estimator/api"
	"github.com/ajfinson/car-price-estimator/core/engine"
	"github.com/ajfinson/car-price-estimator/core/estimator"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve starts the HTTP API.

Endpoints:
  POST /api/tco/estimate
  GET  /health`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	client := estimator.NewOpenAIClient(estimator.OpenAIConfig{
		APIKey:  cfg.Estimator.APIKey,
		BaseURL: cfg.Estimator.BaseURL,
		Model:   cfg.Estimator.Model,
		Timeout: cfg.Estimator.Timeout(),
	})
	service := engine.NewService(client, cfg.Assumptions, cfg.Estimator.AuditEnabled)
	server := api.NewServer(service, "1.0.0")

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	fmt.Printf("Car Lifetime TCO API\n")
	fmt.Printf("   Listening on %s\n", addr)
	fmt.Printf("   Estimate: POST http://localhost%s/api/tco/estimate\n", addr)

	return server.ListenAndServe(addr)
}
