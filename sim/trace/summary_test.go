package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	vt := NewVolumeTrace(TraceConfig{Level: TraceLevelVolume})

	// WHEN summarized
	summary := Summarize(vt)

	// THEN all counts are zero
	if summary.TotalMoves != 0 || summary.AcceptedCount != 0 || summary.RejectedCount != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.AcceptanceRate != 0 || summary.MeanScale != 0 {
		t.Error("expected zero rates")
	}
	if len(summary.ReasonCounts) != 0 {
		t.Error("expected empty reason counts")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalMoves != 0 {
		t.Errorf("expected 0 moves, got %d", summary.TotalMoves)
	}
	if summary.ReasonCounts == nil || summary.AxisCounts == nil {
		t.Error("expected initialized maps")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with every kind of outcome
	vt := NewVolumeTrace(TraceConfig{Level: TraceLevelVolume})
	vt.Record(VolumeRecord{Sweep: 0, Axis: "x", Scale: 1.02, Accepted: true, Reason: ReasonAccepted})
	vt.Record(VolumeRecord{Sweep: 1, Axis: "y", Scale: 0.98, Accepted: true, Reason: ReasonAccepted})
	vt.Record(VolumeRecord{Sweep: 2, Axis: "x", Scale: 0.97, Reason: ReasonOverlap})
	vt.Record(VolumeRecord{Sweep: 3, Axis: "y", Scale: 1.1, Reason: ReasonMetropolis})
	vt.Record(VolumeRecord{Sweep: 4, Scale: -0.5, Reason: ReasonNonPhysical})

	// WHEN summarized
	summary := Summarize(vt)

	// THEN counts and means cover only what they should
	if summary.TotalMoves != 5 {
		t.Errorf("expected 5 moves, got %d", summary.TotalMoves)
	}
	if summary.AcceptedCount != 2 || summary.RejectedCount != 3 {
		t.Errorf("expected 2 accepted and 3 rejected, got %d and %d", summary.AcceptedCount, summary.RejectedCount)
	}
	if summary.AcceptanceRate != 0.4 {
		t.Errorf("expected acceptance 0.4, got %v", summary.AcceptanceRate)
	}
	if d := summary.MeanScale - 1.0; d > 1e-12 || d < -1e-12 {
		t.Errorf("expected mean accepted scale 1.0, got %v", summary.MeanScale)
	}
	for reason, want := range map[Reason]int{ReasonAccepted: 2, ReasonOverlap: 1, ReasonMetropolis: 1, ReasonNonPhysical: 1} {
		if got := summary.ReasonCounts[reason]; got != want {
			t.Errorf("reason %s: expected %d, got %d", reason, want, got)
		}
	}
	if summary.AxisCounts["x"] != 1 || summary.AxisCounts["y"] != 1 {
		t.Errorf("expected one accepted move per axis, got %v", summary.AxisCounts)
	}
}
