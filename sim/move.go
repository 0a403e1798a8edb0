package sim

import (
	"fmt"
	"math"

	"github.com/hard-disks/hard-disks/sim/trace"
)

// Axis selects the box side rescaled by a volume move.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// DisplacementMove performs one NVT trial: a random disk is displaced by
// (dx, dy), each drawn uniformly from [-delta, delta), and the move is undone
// if the disk then overlaps a neighbor. Returns true if the move was kept.
//
// Hard disks have energy 0 or infinity, so the Metropolis test reduces to the
// overlap test and temperature does not enter.
func DisplacementMove(s *State, rng Random, delta float64) bool {
	dx := (2*rng.Uniform01() - 1) * delta
	dy := (2*rng.Uniform01() - 1) * delta
	i := rng.UniformIndex(s.Len())

	old := s.disks[i].Position
	s.UpdateDiskCoordinates(i, old.X+dx, old.Y+dy)
	if s.IsDiskOverlapping(i) {
		s.UpdateDiskCoordinates(i, old.X, old.Y)
		return false
	}
	return true
}

// Sweep performs N displacement trials and returns how many were kept.
func Sweep(s *State, rng Random, delta float64) int {
	kept := 0
	for k := 0; k < s.Len(); k++ {
		if DisplacementMove(s, rng, delta) {
			kept++
		}
	}
	return kept
}

// MaxVolumeChange returns the largest absolute volume change proposed at
// reduced pressure betaP, 2/betaP.
func MaxVolumeChange(betaP float64) float64 {
	return 2 / betaP
}

// VolumeOutcome describes one NPT trial.
type VolumeOutcome struct {
	Displaced    int // displacement trials kept in the preceding sweep
	Axis         Axis
	Scale        float64
	VolumeBefore float64
	VolumeAfter  float64
	Acceptance   float64
	Accepted     bool
	Reason       trace.Reason
}

// Record converts the outcome into a trace record for sweep.
func (o VolumeOutcome) Record(sweep int) trace.VolumeRecord {
	axis := ""
	if o.Reason != trace.ReasonNonPhysical {
		axis = o.Axis.String()
	}
	return trace.VolumeRecord{
		Sweep:        sweep,
		Axis:         axis,
		Scale:        o.Scale,
		VolumeBefore: o.VolumeBefore,
		VolumeAfter:  o.VolumeAfter,
		Acceptance:   o.Acceptance,
		Accepted:     o.Accepted,
		Reason:       o.Reason,
	}
}

// VolumeMove performs one NPT trial at reduced pressure betaP: a sweep of
// displacement trials, then an axis-selected box rescaling accepted with
// probability min(1, exp(-betaP*dV + N*ln(V'/V))) and rolled back if the
// rescaled configuration overlaps. A proposal that would leave the chosen side
// shorter than a disk diameter is rejected before the Metropolis draw.
// The Metropolis draw precedes the overlap scan so rejected proposals never
// pay for it.
func VolumeMove(s *State, rng Random, betaP, delta float64) VolumeOutcome {
	out := VolumeOutcome{Displaced: Sweep(s, rng, delta)}

	maxDV := MaxVolumeChange(betaP)
	dV := (2*rng.Uniform01() - 1) * maxDV
	vBefore := s.box.Area()
	scale := 1 + dV/vBefore
	out.VolumeBefore = vBefore
	out.Scale = scale
	if scale <= 0 {
		out.VolumeAfter = vBefore
		out.Reason = trace.ReasonNonPhysical
		return out
	}

	out.Axis = AxisX
	if rng.Bernoulli(0.5) {
		out.Axis = AxisY
	}
	vAfter := vBefore * scale
	out.VolumeAfter = vAfter
	if s.side(out.Axis)*scale < 2*s.radius {
		out.Reason = trace.ReasonThinBox
		return out
	}

	n := float64(s.Len())
	logAcc := -betaP*(vAfter-vBefore) + n*(math.Log(vAfter)-math.Log(vBefore))
	out.Acceptance = math.Min(1, math.Exp(logAcc))
	if rng.Uniform01() >= out.Acceptance {
		out.Reason = trace.ReasonMetropolis
		return out
	}

	s.scaleAxis(out.Axis, scale)
	if s.AreAnyDisksOverlapping() {
		s.restoreAxis(out.Axis)
		out.Reason = trace.ReasonOverlap
		return out
	}
	out.Accepted = true
	out.Reason = trace.ReasonAccepted
	return out
}
