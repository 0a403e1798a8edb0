package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/hard-disks/hard-disks/sim/trace"
)

const (
	// DefaultMaxDisplacement is the half-width of the displacement window.
	DefaultMaxDisplacement = 0.5
	// DefaultSamplePeriod is the number of sweeps between observable samples.
	DefaultSamplePeriod = 100
)

// ProgressFunc is called after every completed sweep with the number of
// sweeps done and the total number of sweeps of the run.
type ProgressFunc func(done, total int)

// SampleOption configures SampleNVT and SampleNPT.
type SampleOption func(*sampleConfig)

type sampleConfig struct {
	rng             Random
	maxDisplacement float64
	samplePeriod    int
	progress        ProgressFunc
	trace           *trace.VolumeTrace
	checkInvariants bool
}

// WithRandom sets the random source. Without it each run draws a fresh entropy seed.
func WithRandom(rng Random) SampleOption {
	return func(c *sampleConfig) { c.rng = rng }
}

// WithMaxDisplacement sets the displacement half-width delta.
func WithMaxDisplacement(delta float64) SampleOption {
	return func(c *sampleConfig) { c.maxDisplacement = delta }
}

// WithSamplePeriod sets the number of sweeps between observable samples.
func WithSamplePeriod(sweeps int) SampleOption {
	return func(c *sampleConfig) { c.samplePeriod = sweeps }
}

// WithProgress registers a per-sweep progress callback.
func WithProgress(fn ProgressFunc) SampleOption {
	return func(c *sampleConfig) { c.progress = fn }
}

// WithTrace records every volume move of an NPT run into vt.
func WithTrace(vt *trace.VolumeTrace) SampleOption {
	return func(c *sampleConfig) { c.trace = vt }
}

// WithInvariantChecks verifies State invariants after every sweep and panics
// on the first violation. Intended for tests; it costs O(N) per sweep.
func WithInvariantChecks() SampleOption {
	return func(c *sampleConfig) { c.checkInvariants = true }
}

func newSampleConfig(s *State, opts []SampleOption) *sampleConfig {
	c := &sampleConfig{
		maxDisplacement: DefaultMaxDisplacement,
		samplePeriod:    DefaultSamplePeriod,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = NewEntropyRandom()
	}
	if s.Len() == 0 {
		panic("Sample: state has no disks")
	}
	if !(c.maxDisplacement > 0) || math.IsInf(c.maxDisplacement, 0) {
		panic(fmt.Sprintf("Sample: max displacement must be finite and > 0, got %v", c.maxDisplacement))
	}
	if c.samplePeriod <= 0 {
		panic(fmt.Sprintf("Sample: sample period must be > 0, got %d", c.samplePeriod))
	}
	return c
}

func (c *sampleConfig) verify(s *State, where string) {
	if !c.checkInvariants {
		return
	}
	if err := s.CheckInvariants(); err != nil {
		panic(fmt.Sprintf("%s: invariant violated: %v", where, err))
	}
}

// SampleNVT runs nSteps displacement trials on s at fixed N, area and temperature.
// Every samplePeriod sweeps (step mod samplePeriod*N == 0) the g(r) histogram
// and the density series are sampled.
func SampleNVT(s *State, nSteps int, opts ...SampleOption) *Thermo {
	if nSteps <= 0 {
		panic(fmt.Sprintf("SampleNVT: n_steps must be > 0, got %d", nSteps))
	}
	c := newSampleConfig(s, opts)
	n := s.Len()
	period := c.samplePeriod * n
	totalSweeps := (nSteps + n - 1) / n

	thermo := NewThermo(EnsembleNVT)
	gofr := NewGofR(s.radius)
	kept := 0
	for step := 0; step < nSteps; step++ {
		if DisplacementMove(s, c.rng, c.maxDisplacement) {
			kept++
		}
		if step%period == 0 {
			gofr.Update(s)
			thermo.RecordDensity(step, s.PackingFraction())
			logrus.Debugf("[nvt step %09d] acceptance so far %.4f", step, float64(kept)/float64(step+1))
		}
		if (step+1)%n == 0 {
			c.verify(s, "SampleNVT")
			if c.progress != nil {
				c.progress((step+1)/n, totalSweeps)
			}
		}
	}
	thermo.NVTAcceptanceRate = float64(kept) / float64(nSteps)
	gofr.Renormalize(s)
	thermo.GofR = gofr
	return thermo
}

// SampleNPT runs ceil(nSteps/N) volume trials on s at reduced pressure betaP;
// each volume trial starts with a full displacement sweep. The density series
// is sampled every samplePeriod sweeps at step sweep*N.
func SampleNPT(s *State, betaP float64, nSteps int, opts ...SampleOption) *Thermo {
	if !(betaP > 0) || math.IsInf(betaP, 0) {
		panic(fmt.Sprintf("SampleNPT: pressure must be finite and > 0, got %v", betaP))
	}
	if nSteps <= 0 {
		panic(fmt.Sprintf("SampleNPT: n_steps must be > 0, got %d", nSteps))
	}
	c := newSampleConfig(s, opts)
	n := s.Len()
	nSweeps := (nSteps + n - 1) / n

	thermo := NewThermo(EnsembleNPT)
	displaced, accepted := 0, 0
	for sweep := 0; sweep < nSweeps; sweep++ {
		out := VolumeMove(s, c.rng, betaP, c.maxDisplacement)
		displaced += out.Displaced
		if out.Accepted {
			accepted++
		}
		c.trace.Record(out.Record(sweep))
		if sweep%c.samplePeriod == 0 {
			thermo.RecordDensity(sweep*n, s.PackingFraction())
			logrus.Debugf("[npt sweep %07d] density=%.5f box=(%.4f, %.4f) volume acceptance %.4f",
				sweep, s.PackingFraction(), s.box.Lx, s.box.Ly, float64(accepted)/float64(sweep+1))
		}
		c.verify(s, "SampleNPT")
		if c.progress != nil {
			c.progress(sweep+1, nSweeps)
		}
	}
	thermo.NVTAcceptanceRate = float64(displaced) / float64(nSweeps*n)
	thermo.NPTAcceptanceRate = float64(accepted) / float64(nSweeps)
	return thermo
}
