// Package render draws hard-disk snapshots and density series as SVG.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hard-disks/hard-disks/sim"
)

// DefaultScale is the number of pixels per unit length.
const DefaultScale = 10.0

// SnapshotOptions controls snapshot rendering.
type SnapshotOptions struct {
	Scale       float64 // pixels per unit length; 0 = DefaultScale
	StrokeWidth float64 // 0 = 1px
	DrawBox     bool    // outline the periodic cell
}

// Canvas returns the pixel size of a box drawn at scale.
func Canvas(box sim.Box, scale float64) (width, height int) {
	return int(math.Ceil(box.Lx * scale)), int(math.Ceil(box.Ly * scale))
}

// Snapshot draws every disk as a stroked circle of its radius, with the y axis
// pointing up, and writes the SVG document to w.
func Snapshot(w io.Writer, radius float64, box sim.Box, positions []sim.Position, opts SnapshotOptions) error {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	if !(scale > 0) {
		return fmt.Errorf("scale must be positive, got %v", scale)
	}
	strokeWidth := opts.StrokeWidth
	if strokeWidth == 0 {
		strokeWidth = 1
	}
	width, height := Canvas(box, scale)
	r, err := chart.SVG(width, height)
	if err != nil {
		return fmt.Errorf("creating SVG renderer: %w", err)
	}

	if opts.DrawBox {
		r.SetStrokeColor(drawing.ColorBlack)
		r.SetStrokeWidth(strokeWidth)
		r.MoveTo(0, 0)
		r.LineTo(width, 0)
		r.LineTo(width, height)
		r.LineTo(0, height)
		r.Close()
		r.Stroke()
	}

	for _, p := range positions {
		p = box.Wrap(p)
		r.SetStrokeColor(drawing.ColorBlack)
		r.SetFillColor(drawing.ColorTransparent)
		r.SetStrokeWidth(strokeWidth)
		r.Circle(radius*scale, int(math.Round(p.X*scale)), height-int(math.Round(p.Y*scale)))
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("writing SVG: %w", err)
	}
	return nil
}

// DensitySeries plots density against step as an SVG line chart.
// At least two samples are required.
func DensitySeries(w io.Writer, steps []int, density []float64, title string) error {
	if len(steps) != len(density) {
		return fmt.Errorf("series length mismatch: %d steps, %d densities", len(steps), len(density))
	}
	if len(steps) < 2 {
		return fmt.Errorf("need at least 2 samples to plot, got %d", len(steps))
	}
	xs := make([]float64, len(steps))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range steps {
		xs[i] = float64(s)
		lo = math.Min(lo, density[i])
		hi = math.Max(hi, density[i])
	}

	yAxis := chart.YAxis{
		Name:  "density",
		Style: chart.Style{FontSize: 10.0},
	}
	// go-chart refuses a zero-height range; NVT series are constant
	if hi-lo < 1e-12 {
		pad := math.Max(math.Abs(lo)*0.01, 1e-3)
		yAxis.Range = &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "step",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "density",
				XValues: xs,
				YValues: density,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
		},
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("rendering density chart: %w", err)
	}
	return nil
}
