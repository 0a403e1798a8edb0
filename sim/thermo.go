package sim

// Ensemble names the statistical ensemble a Thermo was sampled in.
type Ensemble string

const (
	EnsembleNVT Ensemble = "nvt"
	EnsembleNPT Ensemble = "npt"
)

// Thermo accumulates the observables of one sampling run.
// Step and Density are parallel series; Density is the packing fraction.
type Thermo struct {
	Ensemble          Ensemble
	Step              []int
	Density           []float64
	NVTAcceptanceRate float64
	NPTAcceptanceRate float64
	GofR              *GofR // nil for NPT runs
}

// NewThermo returns an empty Thermo for ensemble.
func NewThermo(ensemble Ensemble) *Thermo {
	return &Thermo{
		Ensemble: ensemble,
		Step:     make([]int, 0),
		Density:  make([]float64, 0),
	}
}

// RecordDensity appends a (step, density) sample.
func (t *Thermo) RecordDensity(step int, density float64) {
	t.Step = append(t.Step, step)
	t.Density = append(t.Density, density)
}

// Samples returns the number of density samples.
func (t *Thermo) Samples() int { return len(t.Step) }

// LastDensity returns the most recent density sample, or 0 if there is none.
func (t *Thermo) LastDensity() float64 {
	if len(t.Density) == 0 {
		return 0
	}
	return t.Density[len(t.Density)-1]
}
