// Package config loads and validates the YAML run configuration of a
// hard-disk simulation.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hard-disks/hard-disks/sim/trace"
)

const (
	// DefaultMaxDisplacement matches sim.DefaultMaxDisplacement.
	DefaultMaxDisplacement = 0.5
	// DefaultSamplePeriod matches sim.DefaultSamplePeriod.
	DefaultSamplePeriod = 100
	// MaxPackingFraction matches sim.MaxPackingFraction.
	MaxPackingFraction = 0.9
)

// Ensemble is the sampling ensemble selected by a Config.
type Ensemble string

const (
	EnsembleNVT Ensemble = "nvt"
	EnsembleNPT Ensemble = "npt"
)

// Config is the run configuration.
// The presence of Pressure selects NPT sampling; its absence selects NVT.
type Config struct {
	NDisk           int      `yaml:"n_disk"`
	PackingFraction float64  `yaml:"packing_fraction"`
	NStep           int      `yaml:"n_step"`
	Pressure        *float64 `yaml:"pressure,omitempty"`
	Seed            *int64   `yaml:"seed,omitempty"`
	MaxDisplacement float64  `yaml:"max_displacement,omitempty"` // 0 = DefaultMaxDisplacement
	SamplePeriod    int      `yaml:"sample_period,omitempty"`    // sweeps; 0 = DefaultSamplePeriod
	Trace           string   `yaml:"trace,omitempty"`            // "none" (default) or "volume"
}

// Load reads and parses a YAML configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration with strict field checking and applies defaults.
// It does not validate; call Validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued optional fields.
func (c *Config) ApplyDefaults() {
	if c.MaxDisplacement == 0 {
		c.MaxDisplacement = DefaultMaxDisplacement
	}
	if c.SamplePeriod == 0 {
		c.SamplePeriod = DefaultSamplePeriod
	}
	if c.Trace == "" {
		c.Trace = "none"
	}
}

// Validate checks that all fields are in range.
func (c *Config) Validate() error {
	if c.NDisk <= 0 {
		return fmt.Errorf("n_disk must be positive, got %d", c.NDisk)
	}
	side, ok := intSqrt(c.NDisk)
	if !ok {
		return fmt.Errorf("n_disk must be a perfect square, got %d", c.NDisk)
	}
	if side%2 != 0 {
		return fmt.Errorf("n_disk must be the square of an even number (hexagonal rows and columns are even), got %d = %d^2", c.NDisk, side)
	}
	if math.IsNaN(c.PackingFraction) || c.PackingFraction <= 0 || c.PackingFraction > MaxPackingFraction {
		return fmt.Errorf("packing_fraction must be in (0, %g], got %f", MaxPackingFraction, c.PackingFraction)
	}
	if c.NStep <= 0 {
		return fmt.Errorf("n_step must be positive, got %d", c.NStep)
	}
	if c.Pressure != nil {
		if err := validateFinitePositive("pressure", *c.Pressure); err != nil {
			return err
		}
	}
	if err := validateFinitePositive("max_displacement", c.MaxDisplacement); err != nil {
		return err
	}
	if c.SamplePeriod <= 0 {
		return fmt.Errorf("sample_period must be positive, got %d", c.SamplePeriod)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, volume", c.Trace)
	}
	return nil
}

// Ensemble reports NPT when a pressure is configured, NVT otherwise.
func (c *Config) Ensemble() Ensemble {
	if c.Pressure != nil {
		return EnsembleNPT
	}
	return EnsembleNVT
}

// LatticeSide returns sqrt(n_disk), the number of rows and columns of the
// initial hexagonal lattice. Only meaningful after Validate succeeds.
func (c *Config) LatticeSide() int {
	side, _ := intSqrt(c.NDisk)
	return side
}

func intSqrt(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r, r*r == n
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
