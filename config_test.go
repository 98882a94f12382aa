package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9999
store:
  backend: simple
planner:
  plan_length_seconds: 1.0
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, "simple", cfg.Store.Backend)
	assert.Equal(t, 1.0, cfg.Planner.PlanLengthSeconds)

	// Everything not set in the file keeps its default.
	assert.Equal(t, 0.1, cfg.Planner.StepSizeSeconds)
	assert.Equal(t, -0.1, cfg.Planner.StepBias)
	assert.Equal(t, 3, cfg.Planner.TurnSamplesPerSide)
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [not a mapping"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Config){
		"bad port":        func(c *Config) { c.HTTP.Port = -1 },
		"bad backend":     func(c *Config) { c.Store.Backend = "quadtree" },
		"zero step size":  func(c *Config) { c.Planner.StepSizeSeconds = 0 },
		"zero length":     func(c *Config) { c.Planner.PlanLengthSeconds = 0 },
		"no turn samples": func(c *Config) { c.Planner.TurnSamplesPerSide = 0 },
		"zero curvature":  func(c *Config) { c.Planner.MaxCurvature = 0 },
		"zero radius":     func(c *Config) { c.Planner.LandmarkQueryRadius = 0 },
		"zero start dist": func(c *Config) { c.Planner.ProximityStartDist = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
