// Package testutil provides shared test infrastructure for the hard-disk
// simulator: float assertions and a scripted random source that lets tests
// drive the Monte Carlo kernels through exact branches.
package testutil

import (
	"fmt"
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// ScriptedRandom replays fixed draws. It satisfies the simulator's Random
// interface structurally.
//
// Uniforms feed Uniform01, Indices feed UniformIndex and Coins feed Bernoulli,
// each in order. Running out of a script panics so a test never silently
// consumes draws it did not plan for.
type ScriptedRandom struct {
	Uniforms []float64
	Indices  []int
	Coins    []bool

	u, i, c int
}

// Uniform01 returns the next scripted uniform.
func (r *ScriptedRandom) Uniform01() float64 {
	if r.u >= len(r.Uniforms) {
		panic(fmt.Sprintf("ScriptedRandom: uniform script exhausted after %d draws", r.u))
	}
	v := r.Uniforms[r.u]
	r.u++
	return v
}

// UniformIndex returns the next scripted index, which must lie in [0, n).
func (r *ScriptedRandom) UniformIndex(n int) int {
	if r.i >= len(r.Indices) {
		panic(fmt.Sprintf("ScriptedRandom: index script exhausted after %d draws", r.i))
	}
	v := r.Indices[r.i]
	r.i++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("ScriptedRandom: scripted index %d outside [0, %d)", v, n))
	}
	return v
}

// Bernoulli returns the next scripted coin, ignoring p.
func (r *ScriptedRandom) Bernoulli(p float64) bool {
	if r.c >= len(r.Coins) {
		panic(fmt.Sprintf("ScriptedRandom: coin script exhausted after %d draws", r.c))
	}
	v := r.Coins[r.c]
	r.c++
	return v
}

// Consumed reports how many uniforms, indices and coins have been drawn.
func (r *ScriptedRandom) Consumed() (uniforms, indices, coins int) {
	return r.u, r.i, r.c
}
