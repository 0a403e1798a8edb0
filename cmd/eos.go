package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/eos"
)

var (
	eosPressure float64 // Reduced pressure betaP
	eosPhi      float64 // Packing fraction
	eosRadius   float64 // Disk radius
)

// eosCmd evaluates the Henderson equation of state in either direction
var eosCmd = &cobra.Command{
	Use:   "eos",
	Short: "Henderson equation of state: packing fraction from pressure or pressure from packing fraction",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := eosTable(cmd.Flags().Changed("pressure"), eosPressure, cmd.Flags().Changed("phi"), eosPhi, eosRadius)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Println(out)
	},
}

// eosTable evaluates Henderson for whichever of pressure or phi is set.
func eosTable(hasPressure bool, pressure float64, hasPhi bool, phi, radius float64) (string, error) {
	if hasPressure == hasPhi {
		return "", fmt.Errorf("exactly one of --pressure or --phi is required")
	}
	if !(radius > 0) {
		return "", fmt.Errorf("radius must be positive, got %v", radius)
	}
	if hasPressure {
		var err error
		phi, err = eos.PackingFraction(pressure, radius)
		if err != nil {
			return "", err
		}
	} else {
		if !(phi > 0) || phi >= 1 {
			return "", fmt.Errorf("packing fraction must be in (0, 1), got %v", phi)
		}
		pressure = eos.Pressure(phi, radius)
	}

	p := message.NewPrinter(lang)
	keys := []string{"Radius", "βP", "φ", "Z = βP/ρ", "v/d²"}
	msg := map[string]string{
		"Radius":   p.Sprintf("%g", radius),
		"βP":       p.Sprintf("%.6g", pressure),
		"φ":        p.Sprintf("%.6f", phi),
		"Z = βP/ρ": p.Sprintf("%.6g", eos.Henderson(phi)),
		"v/d²":     p.Sprintf("%.6f", eos.ReducedVolume(phi)),
	}
	if phi > sim.MaxPackingFraction {
		logrus.Warnf("φ=%.4f is beyond the largest lattice packing fraction %g", phi, sim.MaxPackingFraction)
	}
	return fmtTable("Henderson EOS", keys, msg), nil
}

func init() {
	eosCmd.Flags().Float64Var(&eosPressure, "pressure", 0, "Reduced pressure βP")
	eosCmd.Flags().Float64Var(&eosPhi, "phi", 0, "Packing fraction")
	eosCmd.Flags().Float64Var(&eosRadius, "radius", sim.DefaultRadius, "Disk radius")

	rootCmd.AddCommand(eosCmd)
}
