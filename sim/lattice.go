package sim

import (
	"fmt"
	"math"
)

const (
	// DefaultRadius is the disk radius used by the lattice initializers.
	DefaultRadius = 0.5

	// MaxPackingFraction is the largest packing fraction accepted by HexagonalPacking.
	// The close-packed limit is pi/(2*sqrt(3)) ~ 0.9069.
	MaxPackingFraction = 0.9

	simpleLatticeSpacing = 2.0
	simpleLatticeBoxSide = 20.0
)

// CreateSimpleState places n disks of DefaultRadius on a square lattice of
// side ceil(sqrt(n)) with spacing 2 in a fixed 20x20 box.
// Panics if n <= 0 or if the lattice would not fit in the box (n > 100).
func CreateSimpleState(n int) *State {
	if n <= 0 {
		panic(fmt.Sprintf("CreateSimpleState: n must be > 0, got %d", n))
	}
	perSide := int(math.Ceil(math.Sqrt(float64(n))))
	if float64(perSide)*simpleLatticeSpacing > simpleLatticeBoxSide {
		panic(fmt.Sprintf("CreateSimpleState: %d disks do not fit a %gx%g box; use HexagonalPacking", n, simpleLatticeBoxSide, simpleLatticeBoxSide))
	}
	positions := make([]Position, 0, n)
	for i := 0; i < perSide && len(positions) < n; i++ {
		for j := 0; j < perSide && len(positions) < n; j++ {
			positions = append(positions, Position{
				X: float64(i) * simpleLatticeSpacing,
				Y: float64(j) * simpleLatticeSpacing,
			})
		}
	}
	return NewState(positions, DefaultRadius, Box{Lx: simpleLatticeBoxSide, Ly: simpleLatticeBoxSide})
}

// HexagonalBox returns the box of an nRows x nCols hexagonal lattice of
// disks with the given radius at packing fraction phi.
func HexagonalBox(nRows, nCols int, phi, radius float64) Box {
	n := float64(nRows * nCols)
	boxArea := n * math.Pi * radius * radius / phi
	aspect := math.Sqrt(3) / 2 * float64(nRows) / float64(nCols)
	lx := math.Sqrt(boxArea / aspect)
	return Box{Lx: lx, Ly: aspect * lx}
}

// HexagonalPacking places nRows*nCols disks of DefaultRadius on a triangular
// lattice at packing fraction phi. Both counts must be even and positive so the
// row-offset lattice is periodic; phi must lie in (0, MaxPackingFraction].
// Panics on parameters outside these ranges.
func HexagonalPacking(nRows, nCols int, phi float64) *State {
	return HexagonalPackingWithRadius(nRows, nCols, phi, DefaultRadius)
}

// HexagonalPackingWithRadius is HexagonalPacking with an explicit disk radius.
func HexagonalPackingWithRadius(nRows, nCols int, phi, radius float64) *State {
	if nRows <= 0 || nCols <= 0 || nRows%2 != 0 || nCols%2 != 0 {
		panic(fmt.Sprintf("HexagonalPacking: rows and columns must be even and > 0, got %dx%d", nRows, nCols))
	}
	if !(phi > 0) || phi > MaxPackingFraction {
		panic(fmt.Sprintf("HexagonalPacking: packing fraction must be in (0, %g], got %v", MaxPackingFraction, phi))
	}
	box := HexagonalBox(nRows, nCols, phi, radius)
	dx := box.Lx / float64(nCols)
	dy := 2 * box.Ly / float64(nRows)

	positions := make([]Position, 0, nRows*nCols)
	for r := 0; r < nRows; r++ {
		offset := dx / 4
		if r%2 == 1 {
			offset += dx / 2
		}
		y := float64(r) * dy / 2
		for c := 0; c < nCols; c++ {
			positions = append(positions, Position{X: float64(c)*dx + offset, Y: y})
		}
	}
	return NewState(positions, radius, box)
}
