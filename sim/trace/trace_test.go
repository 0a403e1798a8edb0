package trace

import (
	"testing"
)

func TestVolumeTrace_Record_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for volume moves
	vt := NewVolumeTrace(TraceConfig{Level: TraceLevelVolume})

	// WHEN a record is added
	vt.Record(VolumeRecord{Sweep: 3, Axis: "x", Scale: 1.01, Accepted: true, Reason: ReasonAccepted})

	// THEN the trace holds it with its data intact
	if len(vt.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(vt.Records))
	}
	if vt.Records[0].Sweep != 3 || vt.Records[0].Axis != "x" {
		t.Errorf("unexpected record %+v", vt.Records[0])
	}
}

func TestVolumeTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	vt := NewVolumeTrace(TraceConfig{Level: TraceLevelVolume})
	for i := 0; i < 5; i++ {
		vt.Record(VolumeRecord{Sweep: i})
	}
	for i, r := range vt.Records {
		if r.Sweep != i {
			t.Errorf("record %d: expected sweep %d, got %d", i, i, r.Sweep)
		}
	}
}

func TestVolumeTrace_LevelNone_DropsRecords(t *testing.T) {
	vt := NewVolumeTrace(TraceConfig{Level: TraceLevelNone})
	vt.Record(VolumeRecord{Sweep: 1})
	if vt.Enabled() {
		t.Error("expected level none to be disabled")
	}
	if len(vt.Records) != 0 {
		t.Errorf("expected no records, got %d", len(vt.Records))
	}
}

func TestVolumeTrace_Nil_IsSafe(t *testing.T) {
	var vt *VolumeTrace
	if vt.Enabled() {
		t.Error("nil trace must not be enabled")
	}
	vt.Record(VolumeRecord{Sweep: 1}) // must not panic
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"volume", true},
		{"", true},
		{"decisions", false},
		{"VOLUME", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
