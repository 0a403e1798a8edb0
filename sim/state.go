package sim

import (
	"fmt"
	"math"
)

// State is the mutable aggregate of a hard-disk simulation: disks, box and cell list.
// All mutation goes through State methods, which keep every disk canonicalized
// inside the box and keep the cell list consistent with disk positions.
//
// Thread-safety: NOT thread-safe. A State is owned by a single driver.
type State struct {
	disks  []Disk
	box    Box
	grid   *Grid
	radius float64

	// rollback buffers for volume moves
	saved     []float64
	savedSide float64
}

// NewState builds a State from positions sharing a common radius.
// Positions are wrapped into the box. The returned state may contain overlaps;
// callers that need a valid configuration check AreAnyDisksOverlapping.
// Panics on a non-positive radius or box side.
func NewState(positions []Position, radius float64, box Box) *State {
	if !(radius > 0) || math.IsInf(radius, 0) {
		panic(fmt.Sprintf("State: radius must be finite and > 0, got %v", radius))
	}
	box = NewBox(box.Lx, box.Ly)
	disks := make([]Disk, len(positions))
	for i, p := range positions {
		disks[i] = Disk{Position: box.Wrap(p), Radius: radius}
	}
	s := &State{disks: disks, box: box, radius: radius}
	s.grid = NewGrid(s.disks, s.box, s.radius)
	return s
}

// Len returns the number of disks.
func (s *State) Len() int { return len(s.disks) }

// Radius returns the common disk radius.
func (s *State) Radius() float64 { return s.radius }

// Box returns the current box.
func (s *State) Box() Box { return s.box }

// Grid returns the cell list. Callers must not mutate it.
func (s *State) Grid() *Grid { return s.grid }

// Disk returns a copy of disk i.
func (s *State) Disk(i int) Disk { return s.disks[i] }

// Disks returns a copy of all disks.
func (s *State) Disks() []Disk {
	out := make([]Disk, len(s.disks))
	copy(out, s.disks)
	return out
}

// Positions returns a copy of all disk positions.
func (s *State) Positions() []Position {
	out := make([]Position, len(s.disks))
	for i := range s.disks {
		out[i] = s.disks[i].Position
	}
	return out
}

// PackingFraction returns N*pi*r^2 / (Lx*Ly).
func (s *State) PackingFraction() float64 {
	return float64(len(s.disks)) * math.Pi * s.radius * s.radius / s.box.Area()
}

// NumberDensity returns N / (Lx*Ly).
func (s *State) NumberDensity() float64 {
	return float64(len(s.disks)) / s.box.Area()
}

// UpdateDiskCoordinates wraps (x, y) into the box, stores it on disk i and
// moves the disk between cells if its cell changed.
func (s *State) UpdateDiskCoordinates(i int, x, y float64) {
	d := &s.disks[i]
	d.X = WrapIntoBox(x, s.box.Lx)
	d.Y = WrapIntoBox(y, s.box.Ly)
	c := s.grid.CellOf(d.Position)
	if c != d.CellID {
		s.grid.MoveDisk(i, d.CellID, c)
		d.CellID = c
	}
}

// IsDiskOverlapping reports whether disk i overlaps any other disk.
// Only the disk's own cell and its neighbor cells are examined.
func (s *State) IsDiskOverlapping(i int) bool {
	d := s.disks[i]
	sigmaSq := ContactDistanceSq(s.radius)
	overlap := false
	s.grid.ForEachNeighbor(d.CellID, i, func(j int) bool {
		if DistanceSqPeriodic(d.Position, s.disks[j].Position, s.box) < sigmaSq {
			overlap = true
			return false
		}
		return true
	})
	return overlap
}

// AreAnyDisksOverlapping reports whether any pair of disks overlaps.
// Linear in N through the cell list; meant for validation after volume moves.
func (s *State) AreAnyDisksOverlapping() bool {
	for i := range s.disks {
		if s.IsDiskOverlapping(i) {
			return true
		}
	}
	return false
}

// UpdateGrid discards the cell list and rebuilds it for the current box.
func (s *State) UpdateGrid() {
	s.grid = NewGrid(s.disks, s.box, s.radius)
}

// scaleAxis multiplies the box side along axis by factor and every disk
// coordinate along that axis by the same factor, then rebuilds the grid.
// The pre-scaling side and coordinates are saved for restoreAxis.
func (s *State) scaleAxis(axis Axis, factor float64) {
	s.saved = s.saved[:0]
	switch axis {
	case AxisX:
		s.savedSide = s.box.Lx
		s.box.Lx *= factor
		for i := range s.disks {
			s.saved = append(s.saved, s.disks[i].X)
			s.disks[i].X = WrapIntoBox(s.disks[i].X*factor, s.box.Lx)
		}
	case AxisY:
		s.savedSide = s.box.Ly
		s.box.Ly *= factor
		for i := range s.disks {
			s.saved = append(s.saved, s.disks[i].Y)
			s.disks[i].Y = WrapIntoBox(s.disks[i].Y*factor, s.box.Ly)
		}
	default:
		panic(fmt.Sprintf("State: unknown axis %d", axis))
	}
	s.UpdateGrid()
}

// side returns the box side along axis.
func (s *State) side(axis Axis) float64 {
	if axis == AxisY {
		return s.box.Ly
	}
	return s.box.Lx
}

// restoreAxis undoes the last scaleAxis along axis, restoring the box side and
// coordinates bit-for-bit, then rebuilds the grid.
func (s *State) restoreAxis(axis Axis) {
	switch axis {
	case AxisX:
		s.box.Lx = s.savedSide
		for i := range s.disks {
			s.disks[i].X = s.saved[i]
		}
	case AxisY:
		s.box.Ly = s.savedSide
		for i := range s.disks {
			s.disks[i].Y = s.saved[i]
		}
	}
	s.UpdateGrid()
}

// CheckInvariants verifies that both box sides are at least a disk diameter,
// that every disk is canonicalized, that the cell list matches disk positions
// (each index appears exactly once, in its CellID cell), and that no two disks
// overlap.
func (s *State) CheckInvariants() error {
	if d := 2 * s.radius; s.box.Lx < d || s.box.Ly < d {
		return fmt.Errorf("box (%v, %v) is thinner than the disk diameter %v", s.box.Lx, s.box.Ly, d)
	}
	seen := make([]int, len(s.disks))
	for c, cell := range s.grid.Cells {
		for _, id := range cell.DiskIDs {
			if id < 0 || id >= len(s.disks) {
				return fmt.Errorf("cell %d lists unknown disk %d", c, id)
			}
			seen[id]++
			if s.disks[id].CellID != c {
				return fmt.Errorf("disk %d listed in cell %d but has cell_id %d", id, c, s.disks[id].CellID)
			}
		}
	}
	for i, d := range s.disks {
		if d.X < 0 || d.X >= s.box.Lx || d.Y < 0 || d.Y >= s.box.Ly {
			return fmt.Errorf("disk %d at (%v, %v) outside box (%v, %v)", i, d.X, d.Y, s.box.Lx, s.box.Ly)
		}
		if seen[i] != 1 {
			return fmt.Errorf("disk %d appears %d times in the cell list", i, seen[i])
		}
		if want := s.grid.CellOf(d.Position); want != d.CellID {
			return fmt.Errorf("disk %d has cell_id %d, position maps to cell %d", i, d.CellID, want)
		}
	}
	for i := range s.disks {
		if s.IsDiskOverlapping(i) {
			return fmt.Errorf("disk %d overlaps a neighbor", i)
		}
	}
	return nil
}
