package trace

// TraceSummary aggregates statistics from a VolumeTrace.
type TraceSummary struct {
	TotalMoves     int
	AcceptedCount  int
	RejectedCount  int
	AcceptanceRate float64
	MeanScale      float64 // mean scaling factor over accepted moves (0 if none)
	ReasonCounts   map[Reason]int
	AxisCounts     map[string]int // accepted moves per axis
}

// Summarize computes aggregate statistics from a VolumeTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(vt *VolumeTrace) *TraceSummary {
	summary := &TraceSummary{
		ReasonCounts: make(map[Reason]int),
		AxisCounts:   make(map[string]int),
	}
	if vt == nil {
		return summary
	}

	summary.TotalMoves = len(vt.Records)
	totalScale := 0.0
	for _, r := range vt.Records {
		summary.ReasonCounts[r.Reason]++
		if r.Accepted {
			summary.AcceptedCount++
			summary.AxisCounts[r.Axis]++
			totalScale += r.Scale
		} else {
			summary.RejectedCount++
		}
	}

	if summary.TotalMoves > 0 {
		summary.AcceptanceRate = float64(summary.AcceptedCount) / float64(summary.TotalMoves)
	}
	if summary.AcceptedCount > 0 {
		summary.MeanScale = totalScale / float64(summary.AcceptedCount)
	}

	return summary
}
