package sim

import (
	"fmt"
	"math"
)

// cellSizeFactor sets the target cell side to cellSizeFactor*radius, which is
// larger than the contact distance 2*radius. Overlapping disks therefore always
// sit in the same or in 8-adjacent cells.
const cellSizeFactor = 3.0

// Cell holds the indices of the disks currently inside it and the fixed list of
// its neighbor cells. Neighbors never contains the cell itself or duplicates.
type Cell struct {
	DiskIDs   []int
	Neighbors []int
}

// Grid is a uniform Nx x Ny cell list over a periodic box.
// Cells are indexed by ix + Nx*iy.
type Grid struct {
	Nx    int
	Ny    int
	Cells []Cell
	box   Box
}

// cellCount returns floor(l / (cellSizeFactor*radius)), at least 1.
func cellCount(l, radius float64) int {
	n := int(math.Floor(l / (cellSizeFactor * radius)))
	if n < 1 {
		n = 1
	}
	return n
}

// NewGrid builds the cell list for disks inside box and writes each disk's CellID.
// Disk positions must already be canonicalized.
// Panics if radius is not positive (caller error).
func NewGrid(disks []Disk, box Box, radius float64) *Grid {
	if !(radius > 0) {
		panic(fmt.Sprintf("Grid: radius must be > 0, got %v", radius))
	}
	g := &Grid{
		Nx:  cellCount(box.Lx, radius),
		Ny:  cellCount(box.Ly, radius),
		box: box,
	}
	g.Cells = make([]Cell, g.Nx*g.Ny)
	for iy := 0; iy < g.Ny; iy++ {
		for ix := 0; ix < g.Nx; ix++ {
			g.Cells[g.index(ix, iy)].Neighbors = g.neighborsOf(ix, iy)
		}
	}
	for i := range disks {
		c := g.CellOf(disks[i].Position)
		g.Cells[c].DiskIDs = append(g.Cells[c].DiskIDs, i)
		disks[i].CellID = c
	}
	return g
}

func (g *Grid) index(ix, iy int) int {
	return ix + g.Nx*iy
}

// neighborsOf lists the distinct wrapped 8-neighbors of (ix, iy), excluding itself.
// With Nx, Ny >= 3 that is always 8 cells; smaller grids collapse duplicates so
// the neighborhood covers the whole grid exactly once.
func (g *Grid) neighborsOf(ix, iy int) []int {
	self := g.index(ix, iy)
	out := make([]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := g.index(wrapIndex(ix+dx, g.Nx), wrapIndex(iy+dy, g.Ny))
			if n == self || containsInt(out, n) {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Box returns the box the grid was built for.
func (g *Grid) Box() Box { return g.box }

// Degenerate reports whether either axis has fewer than 3 cells, in which case
// the neighbor lists are shorter than 8 and queries scan the whole grid.
func (g *Grid) Degenerate() bool {
	return g.Nx < 3 || g.Ny < 3
}

// CellOf returns the index of the cell containing the canonicalized position p.
func (g *Grid) CellOf(p Position) int {
	ix := int(p.X * float64(g.Nx) / g.box.Lx)
	iy := int(p.Y * float64(g.Ny) / g.box.Ly)
	// p.X just below Lx can round to Nx
	if ix >= g.Nx {
		ix = g.Nx - 1
	}
	if iy >= g.Ny {
		iy = g.Ny - 1
	}
	return g.index(ix, iy)
}

// MoveDisk moves disk id from cell from to cell to. It is a no-op when from == to.
func (g *Grid) MoveDisk(id, from, to int) {
	if from == to {
		return
	}
	ids := g.Cells[from].DiskIDs
	for k, v := range ids {
		if v == id {
			last := len(ids) - 1
			ids[k] = ids[last]
			g.Cells[from].DiskIDs = ids[:last]
			break
		}
	}
	g.Cells[to].DiskIDs = append(g.Cells[to].DiskIDs, id)
}

// ForEachNeighbor calls fn for every disk index in cell c and its neighbor
// cells, skipping self. Iteration stops early when fn returns false.
func (g *Grid) ForEachNeighbor(c, self int, fn func(j int) bool) {
	for _, j := range g.Cells[c].DiskIDs {
		if j == self {
			continue
		}
		if !fn(j) {
			return
		}
	}
	for _, n := range g.Cells[c].Neighbors {
		for _, j := range g.Cells[n].DiskIDs {
			if j == self {
				continue
			}
			if !fn(j) {
				return
			}
		}
	}
}
