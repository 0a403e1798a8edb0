package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidNPTConfig_LoadsCorrectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
n_disk: 100
packing_fraction: 0.5
n_step: 1000000
pressure: 5.0
seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.NDisk)
	assert.Equal(t, 0.5, cfg.PackingFraction)
	assert.Equal(t, 1000000, cfg.NStep)
	require.NotNil(t, cfg.Pressure)
	assert.Equal(t, 5.0, *cfg.Pressure)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)
	assert.Equal(t, EnsembleNPT, cfg.Ensemble())
	assert.NoError(t, cfg.Validate())
}

func TestParse_NoPressure_SelectsNVTWithDefaults(t *testing.T) {
	cfg, err := Parse([]byte("n_disk: 16\npacking_fraction: 0.3\nn_step: 10\n"))
	require.NoError(t, err)

	assert.Equal(t, EnsembleNVT, cfg.Ensemble())
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, DefaultMaxDisplacement, cfg.MaxDisplacement)
	assert.Equal(t, DefaultSamplePeriod, cfg.SamplePeriod)
	assert.Equal(t, "none", cfg.Trace)
	assert.Equal(t, 4, cfg.LatticeSide())
}

func TestParse_UnknownKey_ReturnsError(t *testing.T) {
	// Typos must not be silently ignored
	_, err := Parse([]byte("n_disk: 16\npacking_fracton: 0.3\nn_step: 10\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_InvalidFields(t *testing.T) {
	neg := -1.0
	nan := math.NaN()
	valid := func() Config {
		c := Config{NDisk: 100, PackingFraction: 0.5, NStep: 10}
		c.ApplyDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero disks", func(c *Config) { c.NDisk = 0 }},
		{"not a perfect square", func(c *Config) { c.NDisk = 99 }},
		{"odd lattice side", func(c *Config) { c.NDisk = 81 }},
		{"zero packing fraction", func(c *Config) { c.PackingFraction = 0 }},
		{"packing fraction above 0.9", func(c *Config) { c.PackingFraction = 0.91 }},
		{"NaN packing fraction", func(c *Config) { c.PackingFraction = math.NaN() }},
		{"zero steps", func(c *Config) { c.NStep = 0 }},
		{"negative pressure", func(c *Config) { c.Pressure = &neg }},
		{"NaN pressure", func(c *Config) { c.Pressure = &nan }},
		{"negative displacement", func(c *Config) { c.MaxDisplacement = -0.1 }},
		{"negative sample period", func(c *Config) { c.SamplePeriod = -5 }},
		{"unknown trace level", func(c *Config) { c.Trace = "decisions" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			require.NoError(t, c.Validate())
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidate_PackingFractionBoundary_Accepted(t *testing.T) {
	c := Config{NDisk: 4, PackingFraction: 0.9, NStep: 1}
	c.ApplyDefaults()
	assert.NoError(t, c.Validate())
}
