package trace

// TraceLevel controls the verbosity of volume-move tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelVolume captures every volume-move decision of an NPT run.
	TraceLevelVolume TraceLevel = "volume"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelVolume: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// VolumeTrace collects volume-move records during an NPT run.
type VolumeTrace struct {
	Config  TraceConfig
	Records []VolumeRecord
}

// NewVolumeTrace creates a VolumeTrace ready for recording.
func NewVolumeTrace(config TraceConfig) *VolumeTrace {
	return &VolumeTrace{
		Config:  config,
		Records: make([]VolumeRecord, 0),
	}
}

// Enabled reports whether records are kept. Safe on a nil trace.
func (vt *VolumeTrace) Enabled() bool {
	return vt != nil && vt.Config.Level == TraceLevelVolume
}

// Record appends a volume-move record when tracing is enabled.
func (vt *VolumeTrace) Record(record VolumeRecord) {
	if !vt.Enabled() {
		return
	}
	vt.Records = append(vt.Records, record)
}
