// Package trace provides volume-move decision recording for NPT runs.
// It stores plain data types and does not import sim/.
package trace

// Reason explains the outcome of a volume move.
type Reason string

const (
	// ReasonAccepted: the rescaled configuration passed both tests.
	ReasonAccepted Reason = "accepted"
	// ReasonNonPhysical: the proposed volume change would make the box side non-positive.
	ReasonNonPhysical Reason = "non-physical"
	// ReasonMetropolis: rejected by the Metropolis draw before any overlap test.
	ReasonMetropolis Reason = "metropolis"
	// ReasonOverlap: rescaling produced an overlap and was rolled back.
	ReasonOverlap Reason = "overlap"
	// ReasonThinBox: the rescaled side would be shorter than a disk diameter,
	// so every disk would overlap its own periodic image.
	ReasonThinBox Reason = "thin-box"
)

// VolumeRecord captures a single volume-move decision.
type VolumeRecord struct {
	Sweep        int
	Axis         string  // "x", "y", or "" when rejected before the axis draw
	Scale        float64 // side scaling factor s = 1 + dV/V
	VolumeBefore float64
	VolumeAfter  float64 // proposed volume; equals VolumeBefore for non-physical proposals
	Acceptance   float64 // Metropolis acceptance probability, capped at 1
	Accepted     bool
	Reason       Reason
}
