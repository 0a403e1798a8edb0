package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/eos"
	"github.com/hard-disks/hard-disks/sim/snapshot"
)

var (
	analyzeDiscard  float64 // Leading fraction dropped as equilibration; unset = MSER
	analyzePressure float64 // Pressure of the run, for the Henderson comparison
	analyzeRadius   float64 // Disk radius of the run
)

// analyzeCmd summarizes the equilibrated tail of a density series
var analyzeCmd = &cobra.Command{
	Use:   "analyze <density.csv>",
	Short: "Equilibrated density and reduced volume of a run, compared with Henderson",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		series, err := snapshot.LoadDensityCSV(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		var pressure, discard *float64
		if cmd.Flags().Changed("pressure") {
			pressure = &analyzePressure
		}
		if cmd.Flags().Changed("discard") {
			discard = &analyzeDiscard
		}
		out, err := analyzeTable(series, discard, pressure, analyzeRadius)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Println(out)
	},
}

// equilibrate drops the equilibration phase of series: a fixed leading
// fraction when discard is set, the MSER truncation point otherwise.
func equilibrate(series []float64, discard *float64) (eos.Equilibrated, error) {
	if discard != nil {
		return eos.Tail(series, *discard)
	}
	return eos.MSER(series)
}

// analyzeTable reports tail statistics of series, and the deviation from
// Henderson when pressure is given.
func analyzeTable(series *snapshot.DensitySeries, discard *float64, pressure *float64, radius float64) (string, error) {
	eq, err := equilibrate(series.Density, discard)
	if err != nil {
		return "", err
	}
	p := message.NewPrinter(lang)
	keys := []string{"Samples", "Truncation", "Discarded", "φ mean", "φ std", "φ std err", "v/d²"}
	msg := map[string]string{
		"Samples":    p.Sprintf("%d", len(series.Density)),
		"Truncation": eq.Method,
		"Discarded":  p.Sprintf("%d (from step %d)", eq.Start, series.Step[eq.Start]),
		"φ mean":     p.Sprintf("%.5f", eq.Mean),
		"φ std":      p.Sprintf("%.5f", eq.StdDev),
		"φ std err":  p.Sprintf("%.5f", eq.StdErr),
		"v/d²":       p.Sprintf("%.5f", eos.ReducedVolume(eq.Mean)),
	}
	if pressure != nil {
		want, err := eos.PackingFraction(*pressure, radius)
		if err != nil {
			return "", err
		}
		keys = append(keys, "βP", "Henderson φ", "Deviation")
		msg["βP"] = p.Sprintf("%g", *pressure)
		msg["Henderson φ"] = p.Sprintf("%.5f", want)
		msg["Deviation"] = p.Sprintf("%.2f %%", 100*eos.RelativeDeviation(eq.Mean, want))
	}
	return fmtTable("density analysis", keys, msg), nil
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeDiscard, "discard", 0, "Drop this leading fraction of samples instead of detecting equilibration with MSER")
	analyzeCmd.Flags().Float64Var(&analyzePressure, "pressure", 0, "Reduced pressure βP of the run")
	analyzeCmd.Flags().Float64Var(&analyzeRadius, "radius", sim.DefaultRadius, "Disk radius of the run")

	rootCmd.AddCommand(analyzeCmd)
}
