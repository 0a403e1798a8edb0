// Package eos provides the Henderson equation of state of the hard-disk fluid
// and the statistics used to compare a sampled density series against it.
package eos

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Henderson returns the compressibility factor Z = betaP/rho of the hard-disk
// fluid at packing fraction eta: Z = (1 + eta^2/8) / (1 - eta)^2.
func Henderson(eta float64) float64 {
	return (1 + eta*eta/8) / ((1 - eta) * (1 - eta))
}

// Pressure returns the reduced pressure betaP predicted by Henderson for disks
// of the given radius at packing fraction eta.
func Pressure(eta, radius float64) float64 {
	rho := eta / (math.Pi * radius * radius)
	return Henderson(eta) * rho
}

// PackingFraction inverts Pressure: it returns the packing fraction at which
// disks of the given radius reach reduced pressure betaP.
// betaP must be positive; Pressure is monotonic on (0, 1), so bisection converges.
func PackingFraction(betaP, radius float64) (float64, error) {
	if !(betaP > 0) || math.IsInf(betaP, 0) {
		return 0, fmt.Errorf("pressure must be finite and positive, got %v", betaP)
	}
	if !(radius > 0) {
		return 0, fmt.Errorf("radius must be positive, got %v", radius)
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 200 && hi-lo > 1e-14; i++ {
		mid := (lo + hi) / 2
		if Pressure(mid, radius) < betaP {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// ReducedVolume returns the area per disk in units of the squared diameter,
// pi/(4*phi), the quantity the reference equation of state is tabulated in.
func ReducedVolume(phi float64) float64 {
	return math.Pi / 4 / phi
}

// ReferencePoint is a tabulated (betaP d^2, v/d^2) state point.
type ReferencePoint struct {
	Pressure float64
	Volume   float64
}

// Reference holds hard-disk equation-of-state points from
// Phys. Rev. E 55, 750 (1997) around the fluid-solid transition.
var Reference = []ReferencePoint{
	{Pressure: 9, Volume: 1.23},
	{Pressure: 8.5, Volume: 1.245},
	{Pressure: 8, Volume: 1.255},
	{Pressure: 7.5, Volume: 1.32},
	{Pressure: 7, Volume: 1.35},
	{Pressure: 6.5, Volume: 1.37},
	{Pressure: 6, Volume: 1.4},
}

// Truncation methods reported in Equilibrated.Method.
const (
	MethodMSER  = "mser"
	MethodFixed = "fixed"
)

// Equilibrated summarizes the tail of a density series.
type Equilibrated struct {
	Method  string  // MethodMSER or MethodFixed
	Start   int     // index of the first retained sample (t0)
	Samples int     // number of retained samples
	Mean    float64 // mean density over the tail
	StdDev  float64 // sample standard deviation over the tail
	StdErr  float64 // StdDev / sqrt(Samples)
}

// Tail discards the leading discard fraction of series as equilibration and
// returns statistics over the rest. discard must lie in [0, 1).
func Tail(series []float64, discard float64) (Equilibrated, error) {
	if discard < 0 || discard >= 1 || math.IsNaN(discard) {
		return Equilibrated{}, fmt.Errorf("discard fraction must be in [0, 1), got %v", discard)
	}
	start := int(math.Floor(float64(len(series)) * discard))
	if start >= len(series) {
		return Equilibrated{}, fmt.Errorf("no samples left after discarding %.0f%% of %d", discard*100, len(series))
	}
	eq := tailFrom(series, start)
	eq.Method = MethodFixed
	return eq, nil
}

// MSER locates the end of equilibration with the marginal standard error
// rule: t0 minimizes the sum of squared deviations of series[t0:] about its
// mean divided by (n-t0)^2. Candidates are limited to the first half of the
// series, where a minimum is meaningful.
func MSER(series []float64) (Equilibrated, error) {
	n := len(series)
	if n < 2 {
		return Equilibrated{}, fmt.Errorf("MSER needs at least 2 samples, got %d", n)
	}
	t0, _ := mserStart(series)
	eq := tailFrom(series, t0)
	eq.Method = MethodMSER
	return eq, nil
}

// mserStart returns the MSER truncation point and its statistic.
// Tail sums come from reversed cumulative sums of the centered series.
func mserStart(series []float64) (int, float64) {
	n := len(series)
	center := stat.Mean(series, nil)
	rev := make([]float64, n)
	revSq := make([]float64, n)
	for i, x := range series {
		d := x - center
		rev[n-1-i] = d
		revSq[n-1-i] = d * d
	}
	sum := floats.CumSum(make([]float64, n), rev)
	sumSq := floats.CumSum(make([]float64, n), revSq)

	best, bestStat := 0, math.Inf(1)
	for t0 := 0; t0 <= min(n/2, n-2); t0++ {
		m := float64(n - t0)
		s := sum[n-t0-1]
		ss := math.Max(0, sumSq[n-t0-1]-s*s/m)
		if st := ss / (m * m); st < bestStat {
			best, bestStat = t0, st
		}
	}
	return best, bestStat
}

func tailFrom(series []float64, start int) Equilibrated {
	tail := series[start:]
	eq := Equilibrated{Start: start, Samples: len(tail)}
	if len(tail) == 1 {
		eq.Mean = tail[0]
		return eq
	}
	eq.Mean, eq.StdDev = stat.MeanStdDev(tail, nil)
	eq.StdErr = eq.StdDev / math.Sqrt(float64(len(tail)))
	return eq
}

// RelativeDeviation returns |got - want| / |want|.
func RelativeDeviation(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}
