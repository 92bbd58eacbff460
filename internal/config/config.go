// Package config holds the server's environment-driven configuration.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/soundtide/soundtide/internal/domain"
)

// Config is populated from SOUNDTIDE_* environment variables.
type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	SegmentsPath  string `envconfig:"SEGMENTS_PATH" default:"data/segments.csv"`
	HarmonicsPath string `envconfig:"HARMONICS_PATH" default:"data/harmonics.csv"`

	// GridPath is optional: without it the server runs with gridded
	// interpolation disabled.
	GridPath string `envconfig:"GRID_PATH"`

	FarThresholdKm float64 `envconfig:"FAR_THRESHOLD_KM" default:"25"`
	InterpRadiusKm float64 `envconfig:"INTERP_RADIUS_KM" default:"15"`
	InterpPower    float64 `envconfig:"INTERP_POWER" default:"2"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("soundtide", &cfg); err != nil {
		return Config{}, &domain.ConfigurationError{Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Port == "" {
		return &domain.ConfigurationError{Reason: "port must not be empty"}
	}
	if c.SegmentsPath == "" || c.HarmonicsPath == "" {
		return &domain.ConfigurationError{Reason: "segments and harmonics paths are required"}
	}
	if c.FarThresholdKm <= 0 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("far threshold must be positive, got %v", c.FarThresholdKm)}
	}
	if c.InterpRadiusKm <= 0 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("interpolation radius must be positive, got %v", c.InterpRadiusKm)}
	}
	if c.InterpPower <= 0 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("interpolation power must be positive, got %v", c.InterpPower)}
	}
	return nil
}
