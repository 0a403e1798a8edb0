package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hard-disks/hard-disks/sim/render"
	"github.com/hard-disks/hard-disks/sim/snapshot"
)

var (
	renderScale  float64 // Pixels per unit length
	renderNoBox  bool    // Skip the box outline
	densityTitle string  // Chart title
)

// renderCmd groups the SVG renderers
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render snapshots or density series as SVG",
}

var renderSnapshotCmd = &cobra.Command{
	Use:   "snapshot <snapshot> <out.svg>",
	Short: "Draw every disk of a snapshot as a circle",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := renderSnapshotFile(args[0], args[1], renderScale, !renderNoBox); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %s", args[1])
	},
}

var renderDensityCmd = &cobra.Command{
	Use:   "density <density.csv> <out.svg>",
	Short: "Plot a density series against step",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := renderDensityFile(args[0], args[1], densityTitle); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %s", args[1])
	},
}

func renderSnapshotFile(in, out string, scale float64, drawBox bool) error {
	sn, err := snapshot.Load(in)
	if err != nil {
		return err
	}
	return createSVG(out, func(w io.Writer) error {
		return render.Snapshot(w, sn.Radius, sn.Box, sn.Positions, render.SnapshotOptions{Scale: scale, DrawBox: drawBox})
	})
}

func renderDensityFile(in, out, title string) error {
	series, err := snapshot.LoadDensityCSV(in)
	if err != nil {
		return err
	}
	return createSVG(out, func(w io.Writer) error {
		return render.DensitySeries(w, series.Step, series.Density, title)
	})
}

// createSVG creates path and hands it to fn. A failed Close is reported, so a
// truncated file never counts as written.
func createSVG(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return writeAndClose(f, path, fn)
}

func writeAndClose(wc io.WriteCloser, path string, fn func(w io.Writer) error) (err error) {
	defer func() {
		if closeErr := wc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	return fn(wc)
}

func init() {
	renderSnapshotCmd.Flags().Float64Var(&renderScale, "scale", render.DefaultScale, "Pixels per unit length")
	renderSnapshotCmd.Flags().BoolVar(&renderNoBox, "no-box", false, "Do not outline the periodic box")
	renderDensityCmd.Flags().StringVar(&densityTitle, "title", "", "Chart title")

	renderCmd.AddCommand(renderSnapshotCmd, renderDensityCmd)
	rootCmd.AddCommand(renderCmd)
}
