package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the track planner service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Planner PlannerConfig `yaml:"planner"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// StoreConfig selects the landmark store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // simple, rtree (default: rtree)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod, dev (default: dev)
	Level string `yaml:"level"` // debug, info, warn, error (default: per env)
}

// PlannerConfig holds the planner tuning options. All distances are meters,
// times seconds, curvatures 1/m.
type PlannerConfig struct {
	StepSizeSeconds     float64 `yaml:"step_size_seconds"`
	PlanLengthSeconds   float64 `yaml:"plan_length_seconds"`
	TurnSamplesPerSide  int     `yaml:"turn_sample_count_per_side"`
	MaxCurvature        float64 `yaml:"max_curvature"`
	LandmarkQueryRadius float64 `yaml:"landmark_query_radius"`
	ProximityStartDist  float64 `yaml:"proximity_start_dist"`
	ProximityMaxWeight  float64 `yaml:"proximity_max_weight"`
	CurvatureWeight     float64 `yaml:"curvature_weight"`
	StepBias            float64 `yaml:"step_bias"`
}

// DefaultPlannerConfig returns the stock planner tuning.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		StepSizeSeconds:     0.1,
		PlanLengthSeconds:   3.0,
		TurnSamplesPerSide:  3,
		MaxCurvature:        1.0 / 0.3,
		LandmarkQueryRadius: 0.5,
		ProximityStartDist:  0.4,
		ProximityMaxWeight:  5.0,
		CurvatureWeight:     0.1,
		StepBias:            -0.1,
	}
}

// DefaultConfig returns the stock service configuration.
func DefaultConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Store:   StoreConfig{Backend: "rtree"},
		Planner: DefaultPlannerConfig(),
		Logging: LoggingConfig{Env: "dev"},
	}
}

// LoadConfig reads the YAML file at path and overlays it on the defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	switch c.Store.Backend {
	case "simple", "rtree":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return c.Planner.Validate()
}

// Validate checks the planner tuning for values the search cannot run with.
func (p PlannerConfig) Validate() error {
	if p.StepSizeSeconds <= 0 {
		return fmt.Errorf("step_size_seconds must be positive, got %v", p.StepSizeSeconds)
	}
	if p.PlanLengthSeconds <= 0 {
		return fmt.Errorf("plan_length_seconds must be positive, got %v", p.PlanLengthSeconds)
	}
	if p.TurnSamplesPerSide < 1 {
		return fmt.Errorf("turn_sample_count_per_side must be at least 1, got %d", p.TurnSamplesPerSide)
	}
	if p.MaxCurvature <= 0 {
		return fmt.Errorf("max_curvature must be positive, got %v", p.MaxCurvature)
	}
	if p.LandmarkQueryRadius <= 0 {
		return fmt.Errorf("landmark_query_radius must be positive, got %v", p.LandmarkQueryRadius)
	}
	if p.ProximityStartDist <= 0 {
		return fmt.Errorf("proximity_start_dist must be positive, got %v", p.ProximityStartDist)
	}
	return nil
}
