package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/trace"
)

// densityColumns is the header row of the density series CSV.
var densityColumns = []string{"step", "density"}

// gofrColumns is the header row of the g(r) CSV.
var gofrColumns = []string{"r", "g", "count"}

// DensitySeries is the (step, density) series of a run.
type DensitySeries struct {
	Step    []int
	Density []float64
}

// WriteDensityCSV writes the density series of t as "step,density" rows.
func WriteDensityCSV(w io.Writer, t *sim.Thermo) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(densityColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range t.Step {
		row := []string{strconv.Itoa(t.Step[i]), formatFloat(t.Density[i])}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveDensityCSV writes the density series of t to path.
func SaveDensityCSV(path string, t *sim.Thermo) error {
	return writeFile(path, func(w io.Writer) error { return WriteDensityCSV(w, t) })
}

// ReadDensityCSV parses a "step,density" CSV with a header row.
func ReadDensityCSV(r io.Reader) (*DensitySeries, error) {
	reader := csv.NewReader(r)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	series := &DensitySeries{}
	for row := 1; ; row++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row, err)
		}
		if len(rec) < len(densityColumns) {
			return nil, fmt.Errorf("CSV row %d has %d columns, expected %d", row, len(rec), len(densityColumns))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: invalid step %q: %w", row, rec[0], err)
		}
		density, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: invalid density %q: %w", row, rec[1], err)
		}
		series.Step = append(series.Step, step)
		series.Density = append(series.Density, density)
	}
	return series, nil
}

// LoadDensityCSV reads a density series from path.
func LoadDensityCSV(path string) (*DensitySeries, error) {
	var series *DensitySeries
	err := readFile(path, func(r io.Reader) error {
		var err error
		series, err = ReadDensityCSV(r)
		return err
	})
	return series, err
}

// WriteGofRCSV writes bin centers, normalized g(r) and raw counts.
func WriteGofRCSV(w io.Writer, g *sim.GofR) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(gofrColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range g.R {
		row := []string{
			formatFloat(g.R[i]),
			formatFloat(g.Normalized[i]),
			strconv.FormatInt(g.Counts[i], 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveGofRCSV writes g to path.
func SaveGofRCSV(path string, g *sim.GofR) error {
	return writeFile(path, func(w io.Writer) error { return WriteGofRCSV(w, g) })
}

// volumeTraceColumns is the header row of the volume-move trace CSV.
var volumeTraceColumns = []string{
	"sweep", "axis", "scale", "volume_before", "volume_after", "acceptance", "accepted", "reason",
}

// WriteVolumeTraceCSV writes one row per recorded volume move.
func WriteVolumeTraceCSV(w io.Writer, vt *trace.VolumeTrace) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(volumeTraceColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if vt != nil {
		for i, r := range vt.Records {
			row := []string{
				strconv.Itoa(r.Sweep),
				r.Axis,
				formatFloat(r.Scale),
				formatFloat(r.VolumeBefore),
				formatFloat(r.VolumeAfter),
				formatFloat(r.Acceptance),
				strconv.FormatBool(r.Accepted),
				string(r.Reason),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row %d: %w", i, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveVolumeTraceCSV writes vt to path.
func SaveVolumeTraceCSV(path string, vt *trace.VolumeTrace) error {
	return writeFile(path, func(w io.Writer) error { return WriteVolumeTraceCSV(w, vt) })
}

// ThermoSummary is the YAML summary of a run.
type ThermoSummary struct {
	Ensemble          string             `yaml:"ensemble"`
	Seed              int64              `yaml:"seed"`
	NDisk             int                `yaml:"n_disk"`
	Pressure          *float64           `yaml:"pressure,omitempty"`
	NVTAcceptanceRate float64            `yaml:"nvt_acceptance_rate"`
	NPTAcceptanceRate float64            `yaml:"npt_acceptance_rate"`
	DensitySamples    int                `yaml:"density_samples"`
	FinalDensity      float64            `yaml:"final_density"`
	FinalBox          [2]float64         `yaml:"final_box,flow"`
	GofRSamples       int                `yaml:"gofr_samples,omitempty"`
	VolumeMoves       *VolumeMoveSummary `yaml:"volume_moves,omitempty"`
}

// VolumeMoveSummary is the YAML form of a trace.TraceSummary.
type VolumeMoveSummary struct {
	Total     int            `yaml:"total"`
	Accepted  int            `yaml:"accepted"`
	Rejected  int            `yaml:"rejected"`
	MeanScale float64        `yaml:"mean_scale"`
	Reasons   map[string]int `yaml:"reasons"`
}

// Summarize builds the YAML summary of a finished run.
func Summarize(t *sim.Thermo, s *sim.State, seed int64, pressure *float64, vt *trace.VolumeTrace) ThermoSummary {
	box := s.Box()
	sum := ThermoSummary{
		Ensemble:          string(t.Ensemble),
		Seed:              seed,
		NDisk:             s.Len(),
		Pressure:          pressure,
		NVTAcceptanceRate: t.NVTAcceptanceRate,
		NPTAcceptanceRate: t.NPTAcceptanceRate,
		DensitySamples:    t.Samples(),
		FinalDensity:      s.PackingFraction(),
		FinalBox:          [2]float64{box.Lx, box.Ly},
	}
	if t.GofR != nil {
		sum.GofRSamples = t.GofR.Samples
	}
	if vt.Enabled() {
		ts := trace.Summarize(vt)
		reasons := make(map[string]int, len(ts.ReasonCounts))
		for r, c := range ts.ReasonCounts {
			reasons[string(r)] = c
		}
		sum.VolumeMoves = &VolumeMoveSummary{
			Total:     ts.TotalMoves,
			Accepted:  ts.AcceptedCount,
			Rejected:  ts.RejectedCount,
			MeanScale: ts.MeanScale,
			Reasons:   reasons,
		}
	}
	return sum
}

// SaveThermoYAML writes sum to path.
func SaveThermoYAML(path string, sum ThermoSummary) error {
	data, err := yaml.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshaling thermo summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing thermo summary: %w", err)
	}
	return nil
}
