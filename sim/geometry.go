package sim

import (
	"fmt"
	"math"
)

// Position is a point in the periodic cell, canonicalized to [0, Lx) x [0, Ly).
type Position struct {
	X float64
	Y float64
}

// Box is the periodic simulation cell. Both sides are strictly positive.
type Box struct {
	Lx float64
	Ly float64
}

// NewBox validates the side lengths and returns a Box.
// Panics on non-positive or non-finite sides (caller error).
func NewBox(lx, ly float64) Box {
	if !(lx > 0) || !(ly > 0) || math.IsInf(lx, 0) || math.IsInf(ly, 0) {
		panic(fmt.Sprintf("Box: side lengths must be finite and > 0, got (%v, %v)", lx, ly))
	}
	return Box{Lx: lx, Ly: ly}
}

// Area returns Lx*Ly.
func (b Box) Area() float64 { return b.Lx * b.Ly }

// Wrap canonicalizes p into the box.
func (b Box) Wrap(p Position) Position {
	return Position{X: WrapIntoBox(p.X, b.Lx), Y: WrapIntoBox(p.Y, b.Ly)}
}

// WrapIntoBox returns x - l*floor(x/l), i.e. x mapped into [0, l).
// Negative inputs are handled; the result is idempotent under repeated wrapping.
func WrapIntoBox(x, l float64) float64 {
	if x >= 0 && x < l {
		return x
	}
	w := x - l*math.Floor(x/l)
	// x slightly below a multiple of l can round up to exactly l
	if w >= l {
		w -= l
	}
	if w < 0 {
		w = 0
	}
	return w
}

// minimumImage folds a separation d into [-l/2, l/2].
// The single-step fold is exact when |d| < 3l/2, which holds for canonicalized
// coordinates; larger separations fall back to a remainder-based fold.
func minimumImage(d, l float64) float64 {
	half := l / 2
	if math.Abs(d) >= 1.5*l {
		d = math.Remainder(d, l)
		return d
	}
	if d > half {
		d -= l
	} else if d < -half {
		d += l
	}
	return d
}

// DistanceSqPeriodic returns the squared minimum-image distance between p and q.
func DistanceSqPeriodic(p, q Position, b Box) float64 {
	dx := minimumImage(p.X-q.X, b.Lx)
	dy := minimumImage(p.Y-q.Y, b.Ly)
	return dx*dx + dy*dy
}
