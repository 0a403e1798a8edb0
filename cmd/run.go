package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/config"
	"github.com/hard-disks/hard-disks/sim/render"
	"github.com/hard-disks/hard-disks/sim/snapshot"
	"github.com/hard-disks/hard-disks/sim/trace"
)

var (
	configPath  string // Run configuration YAML
	presetName  string // Named preset from the presets file
	presetsPath string // Presets file
	seed        int64  // Seed override
	outDir      string // Output directory
	fromPath    string // Start from this snapshot instead of a lattice
	compress    string // Snapshot compression: "", "gz" or "zst"
	quiet       bool   // Hide the progress bar and summary table
	writeSVG    bool   // Also render initial and final snapshots
)

// runOptions is everything a run needs besides the configuration.
type runOptions struct {
	OutDir   string
	From     string
	Compress string
	SVG      bool
	Progress io.Writer // nil hides the progress bar
}

// runResult is what a run leaves behind for the summary table.
type runResult struct {
	Config  *config.Config
	Seed    int64
	State   *sim.State
	Thermo  *sim.Thermo
	Trace   *trace.VolumeTrace
	Elapsed time.Duration
	Files   []string
}

// runCmd samples a configuration and writes snapshots and observables
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an NVT or NPT hard-disk simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(configPath, presetName, presetsPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = &seed
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		opts := runOptions{OutDir: outDir, From: fromPath, Compress: compress, SVG: writeSVG}
		if !quiet {
			opts.Progress = os.Stderr
		}
		res, err := runSimulation(cfg, opts)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !quiet {
			fmt.Println(runSummaryTable(res))
		}
		logrus.Info("Simulation complete.")
	},
}

// resolveConfig loads either a config file or a named preset.
func resolveConfig(path, preset, presetsFile string) (*config.Config, error) {
	switch {
	case path != "" && preset != "":
		return nil, fmt.Errorf("--config and --preset are mutually exclusive")
	case path != "":
		return config.Load(path)
	case preset != "":
		presets, err := loadPresets(presetsFile)
		if err != nil {
			return nil, err
		}
		return presets.Get(preset)
	default:
		return nil, fmt.Errorf("one of --config or --preset is required")
	}
}

// runSimulation runs cfg and writes its outputs into opts.OutDir.
// cfg must already be validated.
func runSimulation(cfg *config.Config, opts runOptions) (*runResult, error) {
	ext, err := snapshotExt(opts.Compress)
	if err != nil {
		return nil, err
	}
	var key sim.SimulationKey
	if cfg.Seed != nil {
		key = sim.NewSimulationKey(*cfg.Seed)
	} else {
		key = sim.EntropyKey()
		logrus.Infof("No seed configured; using entropy seed %d", int64(key))
	}

	s, err := initialState(cfg, opts.From)
	if err != nil {
		return nil, err
	}
	if err := s.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("invalid initial configuration: %w", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	res := &runResult{Config: cfg, Seed: int64(key), State: s}
	if err := res.save("initial.txt"+ext, opts.OutDir, func(p string) error {
		return snapshot.Save(p, snapshot.FromState(s))
	}); err != nil {
		return nil, err
	}
	if opts.SVG {
		if err := res.save("initial.svg", opts.OutDir, func(p string) error { return saveSnapshotSVG(p, s) }); err != nil {
			return nil, err
		}
	}

	n := s.Len()
	sweeps := (cfg.NStep + n - 1) / n
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := pb.New(sweeps).SetWriter(progress).Start()
	sampleOpts := []sim.SampleOption{
		sim.WithRandom(sim.NewRandom(key)),
		sim.WithMaxDisplacement(cfg.MaxDisplacement),
		sim.WithSamplePeriod(cfg.SamplePeriod),
		sim.WithProgress(func(done, total int) { bar.SetCurrent(int64(done)) }),
	}

	logrus.Infof("Starting %s run: N=%d phi=%.4f steps=%d seed=%d", cfg.Ensemble(), n, s.PackingFraction(), cfg.NStep, int64(key))
	start := time.Now()
	switch cfg.Ensemble() {
	case config.EnsembleNPT:
		res.Trace = trace.NewVolumeTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)})
		sampleOpts = append(sampleOpts, sim.WithTrace(res.Trace))
		res.Thermo = sim.SampleNPT(s, *cfg.Pressure, cfg.NStep, sampleOpts...)
	default:
		res.Thermo = sim.SampleNVT(s, cfg.NStep, sampleOpts...)
	}
	bar.Finish()
	res.Elapsed = time.Since(start)

	if err := res.writeOutputs(opts, ext); err != nil {
		return nil, err
	}
	return res, nil
}

func (res *runResult) writeOutputs(opts runOptions, ext string) error {
	s, th := res.State, res.Thermo
	if err := res.save("final.txt"+ext, opts.OutDir, func(p string) error {
		return snapshot.Save(p, snapshot.FromState(s))
	}); err != nil {
		return err
	}
	if err := res.save("density.csv", opts.OutDir, func(p string) error {
		return snapshot.SaveDensityCSV(p, th)
	}); err != nil {
		return err
	}
	if th.GofR != nil {
		if err := res.save("gofr.csv", opts.OutDir, func(p string) error {
			return snapshot.SaveGofRCSV(p, th.GofR)
		}); err != nil {
			return err
		}
	}
	if res.Trace.Enabled() {
		if err := res.save("volume_trace.csv", opts.OutDir, func(p string) error {
			return snapshot.SaveVolumeTraceCSV(p, res.Trace)
		}); err != nil {
			return err
		}
	}
	sum := snapshot.Summarize(th, s, res.Seed, res.Config.Pressure, res.Trace)
	if err := res.save("thermo.yaml", opts.OutDir, func(p string) error {
		return snapshot.SaveThermoYAML(p, sum)
	}); err != nil {
		return err
	}
	if opts.SVG {
		if err := res.save("final.svg", opts.OutDir, func(p string) error { return saveSnapshotSVG(p, s) }); err != nil {
			return err
		}
	}
	return nil
}

// save writes one output file and records its path.
func (res *runResult) save(name, dir string, write func(path string) error) error {
	path := filepath.Join(dir, name)
	if err := write(path); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	logrus.Debugf("Wrote %s", path)
	res.Files = append(res.Files, path)
	return nil
}

// initialState builds the hexagonal lattice of cfg, or loads the snapshot at from.
func initialState(cfg *config.Config, from string) (*sim.State, error) {
	if from == "" {
		side := cfg.LatticeSide()
		return sim.HexagonalPacking(side, side, cfg.PackingFraction), nil
	}
	sn, err := snapshot.Load(from)
	if err != nil {
		return nil, fmt.Errorf("loading initial snapshot: %w", err)
	}
	if len(sn.Positions) == 0 {
		return nil, fmt.Errorf("initial snapshot %s has no disks", from)
	}
	if len(sn.Positions) != cfg.NDisk {
		logrus.Warnf("Snapshot %s has %d disks; n_disk=%d is ignored", from, len(sn.Positions), cfg.NDisk)
	}
	return sn.State(), nil
}

func snapshotExt(compress string) (string, error) {
	switch compress {
	case "":
		return "", nil
	case "gz", "zst":
		return "." + compress, nil
	default:
		return "", fmt.Errorf("unknown compression %q; valid: gz, zst", compress)
	}
}

func saveSnapshotSVG(path string, s *sim.State) error {
	return createSVG(path, func(w io.Writer) error {
		return render.Snapshot(w, s.Radius(), s.Box(), s.Positions(), render.SnapshotOptions{DrawBox: true})
	})
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Run configuration YAML")
	runCmd.Flags().StringVar(&presetName, "preset", "", "Named run preset (see --presets)")
	runCmd.Flags().StringVar(&presetsPath, "presets", "presets.yaml", "Presets file used with --preset")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (overrides the config seed)")
	runCmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	runCmd.Flags().StringVar(&fromPath, "from", "", "Start from this snapshot instead of a hexagonal lattice")
	runCmd.Flags().StringVar(&compress, "compress", "", "Compress snapshots: gz or zst")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "Hide the progress bar and summary table")
	runCmd.Flags().BoolVar(&writeSVG, "svg", false, "Also render initial.svg and final.svg")

	rootCmd.AddCommand(runCmd)
}
