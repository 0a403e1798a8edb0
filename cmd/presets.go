package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hard-disks/hard-disks/sim/config"
)

// Presets represents the full presets.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Presets struct {
	Version string                   `yaml:"version"`
	Presets map[string]config.Config `yaml:"presets"`
}

// loadPresets parses a presets file with strict field checking.
func loadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}
	var p Presets
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing presets YAML: %w", err)
	}
	return &p, nil
}

// Get returns a copy of the named preset with defaults applied.
func (p *Presets) Get(name string) (*config.Config, error) {
	cfg, ok := p.Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; available: %s", name, strings.Join(p.Names(), ", "))
	}
	if cfg.Pressure != nil {
		pressure := *cfg.Pressure
		cfg.Pressure = &pressure
	}
	if cfg.Seed != nil {
		s := *cfg.Seed
		cfg.Seed = &s
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Names lists the preset names in sorted order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Presets))
	for name := range p.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
