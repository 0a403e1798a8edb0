// Package sim provides the Monte Carlo engine for a two-dimensional fluid of
// equal hard disks in a periodic rectangular cell.
//
// # Reading Guide
//
// Start with these files to understand the sampling kernel:
//   - geometry.go: Position, Box, minimum-image distance and coordinate wrapping
//   - grid.go: the cell list that keeps overlap tests local to 3x3 cell neighborhoods
//   - state.go: State, the only owner of disks, box and grid, and its mutation primitives
//   - move.go: the displacement (NVT) and volume (NPT) trial moves
//   - sample.go: the SampleNVT / SampleNPT drivers and their options
//
// # Invariants
//
// Between trial moves every disk lies inside the box, its CellID names the cell
// containing it, the cell list lists it exactly once, and no two disks overlap.
// State.CheckInvariants verifies all four.
//
// # Sub-packages
//
//   - sim/config/: YAML run configuration
//   - sim/snapshot/: coordinate snapshots, density and g(r) CSV, thermo YAML
//   - sim/render/: SVG rendering of snapshots and density series
//   - sim/eos/: Henderson equation of state and equilibration statistics
//   - sim/trace/: volume-move decision trace
//
// The random source is the small Random interface; NewRandom builds the
// default seedable PCG implementation from a SimulationKey.
package sim
