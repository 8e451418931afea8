// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ajfinson/car-price-estimator/core/types"
	"github.com/ajfinson/car-price-estimator/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Estimator contains LLM estimator configuration
	Estimator EstimatorConfig `json:"estimator"`

	// Assumptions contains the server-side estimation assumptions
	Assumptions types.Assumptions `json:"assumptions"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// EstimatorConfig contains estimator client settings
type EstimatorConfig struct {
	// APIKey is the estimator credential; usually sourced from the
	// OPENAI_API_KEY environment variable, never written to disk
	APIKey string `json:"-"`

	// BaseURL is the API base URL
	BaseURL string `json:"base_url"`

	// Model is the model identifier
	Model string `json:"model"`

	// TimeoutSeconds bounds each estimator call
	TimeoutSeconds int `json:"timeout_seconds"`

	// AuditEnabled turns the second, corrective estimator pass on or off
	AuditEnabled bool `json:"audit_enabled"`
}

// Timeout returns the per-call timeout as a duration
func (e EstimatorConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr: ":8000",
		},
		Estimator: EstimatorConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
			AuditEnabled:   true,
		},
		Assumptions: types.Assumptions{
			KmPerYear:         15000,
			FuelPricePerLiter: 7.0,
			MaxYears:          20,
			MaxKm:             250000,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv applies environment variable overrides. Variable names
// match the original deployment environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Estimator.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.Estimator.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.Estimator.Model = v
	}
	if v := os.Getenv("TCO_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Estimator.AuditEnabled = b
		}
	}
	if v, ok := envInt("DEFAULT_KM_PER_YEAR"); ok {
		c.Assumptions.KmPerYear = v
	}
	if v, ok := envFloat("DEFAULT_FUEL_PRICE_PER_LITER"); ok {
		c.Assumptions.FuelPricePerLiter = v
	}
	if v, ok := envInt("MAX_YEARS"); ok {
		c.Assumptions.MaxYears = v
	}
	if v, ok := envInt("MAX_KM"); ok {
		c.Assumptions.MaxKm = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(name string) (float64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".car-price-estimator.json")
}
