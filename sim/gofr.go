package sim

import "math"

const (
	// GofRBins is the number of histogram bins of the short-range g(r).
	GofRBins = 50
	// gofrWidthFactor sets the histogram range to [2r, (2+gofrWidthFactor)r].
	gofrWidthFactor = 0.1
)

// GofR is a fixed-range histogram of pair separations over the first peak of
// the radial distribution function, r in [2*radius, 2.1*radius).
// Each unordered pair is counted twice; the ideal-gas reference in
// Renormalize uses N*rho per shell, which double counts the same way.
type GofR struct {
	R          []float64 // bin centers
	Counts     []int64
	Samples    int
	RMin       float64
	RMax       float64
	Dr         float64
	Normalized []float64
}

// NewGofR returns an empty accumulator for disks of the given radius.
func NewGofR(radius float64) *GofR {
	g := &GofR{
		R:          make([]float64, GofRBins),
		Counts:     make([]int64, GofRBins),
		Normalized: make([]float64, GofRBins),
		RMin:       2 * radius,
		RMax:       (2 + gofrWidthFactor) * radius,
		Dr:         gofrWidthFactor * radius / GofRBins,
	}
	for n := range g.R {
		g.R[n] = g.RMin + (float64(n)+0.5)*g.Dr
	}
	return g
}

// Update histograms every ordered pair (i, j) of cell-list neighbors closer
// than RMax and counts one sample.
func (g *GofR) Update(s *State) {
	for i := range s.disks {
		pi := s.disks[i].Position
		s.grid.ForEachNeighbor(s.disks[i].CellID, i, func(j int) bool {
			r := math.Sqrt(DistanceSqPeriodic(pi, s.disks[j].Position, s.box))
			if r < g.RMax && r >= g.RMin {
				bin := int((r - g.RMin) / g.Dr)
				if bin >= GofRBins {
					bin = GofRBins - 1
				}
				g.Counts[bin]++
			}
			return true
		})
	}
	g.Samples++
}

// Renormalize divides each bin by its ideal-gas count pi*(r_hi^2 - r_lo^2)*rho*N
// and by the number of samples, using the density of s.
// With no samples the normalized histogram stays zero.
func (g *GofR) Renormalize(s *State) {
	if g.Samples == 0 {
		return
	}
	rho := s.NumberDensity()
	n := float64(s.Len())
	for k := range g.R {
		lo := g.R[k] - g.Dr/2
		hi := g.R[k] + g.Dr/2
		ideal := math.Pi * (hi*hi - lo*lo) * rho * n
		g.Normalized[k] = float64(g.Counts[k]) / ideal / float64(g.Samples)
	}
}

// TotalCounts returns the sum of all raw bin counts.
func (g *GofR) TotalCounts() int64 {
	var total int64
	for _, c := range g.Counts {
		total += c
	}
	return total
}
