package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hard-disks/hard-disks/sim/internal/testutil"
	"github.com/hard-disks/hard-disks/sim/trace"
)

// halves returns n uniforms of 0.5, which map to a zero displacement.
func halves(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5
	}
	return out
}

func zeros(n int) []int { return make([]int, n) }

func TestDisplacementMove_Accepted(t *testing.T) {
	// GIVEN the 4-disk square lattice and a move of disk 0 by (+0.5, 0)
	s := CreateSimpleState(4)
	rng := &testutil.ScriptedRandom{Uniforms: []float64{0.625, 0.5}, Indices: []int{0}}

	// WHEN the trial runs with delta = 2
	kept := DisplacementMove(s, rng, 2)

	// THEN the disk moved and the state is consistent
	assert.True(t, kept)
	assert.InDelta(t, 0.5, s.Disk(0).X, 1e-15)
	assert.Equal(t, 0.0, s.Disk(0).Y)
	assert.NoError(t, s.CheckInvariants())
}

func TestDisplacementMove_WrapsAcrossBoundary(t *testing.T) {
	s := CreateSimpleState(4)
	rng := &testutil.ScriptedRandom{Uniforms: []float64{0.375, 0.5}, Indices: []int{0}}

	require.True(t, DisplacementMove(s, rng, 2))
	assert.InDelta(t, 19.5, s.Disk(0).X, 1e-12)
	assert.NoError(t, s.CheckInvariants())
}

func TestDisplacementMove_Overlap_RollsBack(t *testing.T) {
	// GIVEN disk 0 at the origin and disk 2 at (2, 0)
	s := CreateSimpleState(4)
	before := s.Disks()

	// WHEN disk 0 is pushed to (1.5, 0), onto disk 2
	rng := &testutil.ScriptedRandom{Uniforms: []float64{0.875, 0.5}, Indices: []int{0}}
	kept := DisplacementMove(s, rng, 2)

	// THEN the trial is rejected and every disk, cell id included, is unchanged
	assert.False(t, kept)
	assert.Equal(t, before, s.Disks())
	assert.NoError(t, s.CheckInvariants())
}

func TestDisplacementMove_DrawOrder(t *testing.T) {
	// Two uniforms are drawn before the index
	s := CreateSimpleState(4)
	rng := &testutil.ScriptedRandom{Uniforms: []float64{0.5, 0.5}, Indices: []int{3}}
	DisplacementMove(s, rng, 0.1)
	u, i, c := rng.Consumed()
	assert.Equal(t, 2, u)
	assert.Equal(t, 1, i)
	assert.Equal(t, 0, c)
}

func TestSweep_PerformsNTrials(t *testing.T) {
	s := CreateSimpleState(9)
	rng := &testutil.ScriptedRandom{Uniforms: halves(18), Indices: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}}
	assert.Equal(t, 9, Sweep(s, rng, 0.5))
	u, i, _ := rng.Consumed()
	assert.Equal(t, 18, u)
	assert.Equal(t, 9, i)
}

func TestMaxVolumeChange(t *testing.T) {
	assert.Equal(t, 0.4, MaxVolumeChange(5))
	assert.Equal(t, 2.0, MaxVolumeChange(1))
}

func TestVolumeMove_NonPhysicalScale_Rejected(t *testing.T) {
	// GIVEN a single disk in a 20x20 box and a pressure low enough that the
	// proposed change can exceed the whole area
	s := CreateSimpleState(1)
	rng := &testutil.ScriptedRandom{Uniforms: []float64{0.5, 0.5, 0.0}, Indices: []int{0}}

	// WHEN dV = -2000 is drawn
	out := VolumeMove(s, rng, 0.001, 0.5)

	// THEN the move is rejected before any axis or Metropolis draw
	assert.False(t, out.Accepted)
	assert.Equal(t, trace.ReasonNonPhysical, out.Reason)
	assert.Less(t, out.Scale, 0.0)
	assert.Equal(t, Box{20, 20}, s.Box())
	_, _, coins := rng.Consumed()
	assert.Equal(t, 0, coins)
	assert.Equal(t, "", out.Record(0).Axis)
}

func TestVolumeMove_MetropolisRejection_LeavesStateUntouched(t *testing.T) {
	// GIVEN 4 disks in a 20x20 box at betaP = 1
	s := CreateSimpleState(4)
	before := s.Disks()

	// WHEN an expansion of ~2 is proposed, accepted with probability ~0.14, and u = 0.5
	uniforms := append(halves(8), 0.999, 0.5)
	rng := &testutil.ScriptedRandom{Uniforms: uniforms, Indices: zeros(4), Coins: []bool{false}}
	out := VolumeMove(s, rng, 1, 0.5)

	// THEN it is rejected by the Metropolis test
	assert.False(t, out.Accepted)
	assert.Equal(t, trace.ReasonMetropolis, out.Reason)
	assert.Equal(t, AxisX, out.Axis)
	assert.Greater(t, out.Acceptance, 0.1)
	assert.Less(t, out.Acceptance, 0.2)
	assert.Equal(t, Box{20, 20}, s.Box())
	assert.Equal(t, before, s.Disks())
	assert.Equal(t, 4, out.Displaced)
}

func TestVolumeMove_SideBelowDiameter_Rejected(t *testing.T) {
	// GIVEN two disks in a box whose x side is barely above a diameter
	s := NewState([]Position{{0.5, 2}, {0.5, 10}}, 0.5, Box{1.02, 20})
	before := s.Disks()

	// WHEN dV = -1 is proposed along x (Lx would drop to ~0.97)
	uniforms := append(halves(4), 0.25)
	rng := &testutil.ScriptedRandom{Uniforms: uniforms, Indices: zeros(2), Coins: []bool{false}}
	out := VolumeMove(s, rng, 1, 0.5)

	// THEN it is rejected without a Metropolis draw and the state is untouched
	assert.False(t, out.Accepted)
	assert.Equal(t, trace.ReasonThinBox, out.Reason)
	assert.Equal(t, AxisX, out.Axis)
	assert.InDelta(t, 1-1/20.4, out.Scale, 1e-12)
	u, i, c := rng.Consumed()
	assert.Equal(t, 5, u)
	assert.Equal(t, 2, i)
	assert.Equal(t, 1, c)
	assert.Equal(t, Box{1.02, 20}, s.Box())
	assert.Equal(t, before, s.Disks())
	assert.NoError(t, s.CheckInvariants())
}

func TestVolumeMove_OverlapRejection_RestoresBitForBit(t *testing.T) {
	// GIVEN a hexagonal state at phi = 0.9, where any 1.4% compression overlaps
	s := HexagonalPacking(4, 4, 0.9)
	box := s.Box()
	positions := s.Positions()

	for _, coin := range []bool{false, true} {
		// WHEN dV = -0.2 is proposed and passes the Metropolis draw
		uniforms := append(halves(32), 0.45, 0.0)
		rng := &testutil.ScriptedRandom{Uniforms: uniforms, Indices: zeros(16), Coins: []bool{coin}}
		out := VolumeMove(s, rng, 1, 0.5)

		// THEN the overlap check rejects it and the old configuration is restored exactly
		assert.False(t, out.Accepted)
		assert.Equal(t, trace.ReasonOverlap, out.Reason)
		assert.InDelta(t, 1-0.2/box.Area(), out.Scale, 1e-12)
		assert.Equal(t, box, s.Box())
		assert.Equal(t, positions, s.Positions())
		assert.NoError(t, s.CheckInvariants())
	}
}

func TestVolumeMove_AcceptedExpansion_ScalesOneAxis(t *testing.T) {
	// GIVEN a hexagonal state at phi = 0.5
	s := HexagonalPacking(4, 4, 0.5)
	box := s.Box()
	vBefore := box.Area()

	// WHEN dV = +1 is proposed along y and u = 0
	uniforms := append(halves(32), 0.75, 0.0)
	rng := &testutil.ScriptedRandom{Uniforms: uniforms, Indices: zeros(16), Coins: []bool{true}}
	out := VolumeMove(s, rng, 1, 0.5)

	// THEN only Ly grows and the acceptance matches the NPT weight
	require.True(t, out.Accepted)
	assert.Equal(t, trace.ReasonAccepted, out.Reason)
	assert.Equal(t, AxisY, out.Axis)
	assert.Equal(t, box.Lx, s.Box().Lx)
	assert.InDelta(t, box.Ly*(1+1/vBefore), s.Box().Ly, 1e-12)
	assert.InDelta(t, vBefore+1, s.Box().Area(), 1e-9)
	wantAcc := math.Exp(-1 + 16*math.Log((vBefore+1)/vBefore))
	assert.InDelta(t, wantAcc, out.Acceptance, 1e-9)
	assert.NoError(t, s.CheckInvariants())

	rec := out.Record(7)
	assert.Equal(t, 7, rec.Sweep)
	assert.Equal(t, "y", rec.Axis)
	assert.True(t, rec.Accepted)
}

func TestAxis_String(t *testing.T) {
	assert.Equal(t, "x", AxisX.String())
	assert.Equal(t, "y", AxisY.String())
	assert.Equal(t, "Axis(5)", Axis(5).String())
}
