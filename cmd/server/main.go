// Package main - Entry point for the Car Lifetime TCO server
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/ajfinson/car-price-estimator/api"
	"github.com/ajfinson/car-price-estimator/core/engine"
	"github.com/ajfinson/car-price-estimator/core/estimator"
	"github.com/ajfinson/car-price-estimator/internal/config"
	"github.com/ajfinson/car-price-estimator/internal/logging"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "server address (overrides config)")
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logging.Sync()

	client := estimator.NewOpenAIClient(estimator.OpenAIConfig{
		APIKey:  cfg.Estimator.APIKey,
		BaseURL: cfg.Estimator.BaseURL,
		Model:   cfg.Estimator.Model,
		Timeout: cfg.Estimator.Timeout(),
	})
	service := engine.NewService(client, cfg.Assumptions, cfg.Estimator.AuditEnabled)
	server := api.NewServer(service, version)

	address := cfg.Server.Addr
	if *addr != "" {
		address = *addr
	}

	fmt.Printf("Car Lifetime TCO API v%s\n", version)
	fmt.Printf("   Listening on %s\n", address)
	fmt.Printf("   Estimate: POST http://localhost%s/api/tco/estimate\n", address)

	if err := server.ListenAndServe(address); err != nil {
		log.Fatal(err)
	}
}
