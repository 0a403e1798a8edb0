package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/hard-disks/hard-disks/sim"
	"github.com/hard-disks/hard-disks/sim/config"
	"github.com/hard-disks/hard-disks/sim/eos"
)

var (
	benchPresets     []string // Presets to run; empty = every NPT preset
	benchChains      int      // Independent chains per preset
	benchWorkers     int      // Concurrent chains
	benchSteps       int      // n_step override; 0 keeps the preset value
	benchDiscard     float64  // Equilibration fraction dropped per chain; unset = MSER
	benchSeed        int64    // Master seed; chain keys derive from it
	benchPresetsFile string   // Presets file
	benchOut         string   // Output root; one directory per preset and chain
)

// benchmarkOptions configures runBenchmark.
type benchmarkOptions struct {
	Names    []string
	Chains   int
	Workers  int
	Steps    int
	Discard  *float64 // nil detects equilibration with MSER
	Seed     int64
	OutDir   string
	Progress io.Writer // nil hides the progress bar
}

// benchmarkRow aggregates the chains of one preset.
type benchmarkRow struct {
	Preset    string
	Pressure  float64
	Chains    int
	Mean      float64 // mean over chains of the per-chain tail mean
	StdErr    float64 // standard error across chains; 0 with one chain
	Method    string  // eos.MethodMSER or eos.MethodFixed
	MeanStart float64 // mean truncation point t0 over chains
	Henderson float64
}

type benchmarkJob struct {
	row   int
	chain int
	cfg   *config.Config
	dir   string
}

// benchmarkCmd runs the NPT presets as independent chains and compares the
// equilibrated densities with the Henderson equation of state
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run NPT presets over independent chains and compare with Henderson",
	Run: func(cmd *cobra.Command, args []string) {
		presets, err := loadPresets(benchPresetsFile)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := benchmarkOptions{
			Names:    benchPresets,
			Chains:   benchChains,
			Workers:  benchWorkers,
			Steps:    benchSteps,
			Seed:     benchSeed,
			OutDir:   benchOut,
			Progress: os.Stderr,
		}
		if cmd.Flags().Changed("discard") {
			opts.Discard = &benchDiscard
		}
		if !cmd.Flags().Changed("seed") {
			opts.Seed = int64(sim.EntropyKey())
			logrus.Infof("No seed given; using entropy seed %d", opts.Seed)
		}
		rows, err := runBenchmark(presets, opts)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		fmt.Println(benchmarkTable(rows))
	},
}

// runBenchmark runs opts.Chains chains of every selected preset on
// opts.Workers goroutines. Each chain owns its State and Random; chain c of
// every preset uses ChainKey(c) of the master seed.
func runBenchmark(presets *Presets, opts benchmarkOptions) ([]benchmarkRow, error) {
	if opts.Chains < 1 {
		return nil, fmt.Errorf("chains must be > 0, got %d", opts.Chains)
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("workers must be > 0, got %d", opts.Workers)
	}
	names := opts.Names
	if len(names) == 0 {
		for _, name := range presets.Names() {
			if presets.Presets[name].Pressure != nil {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no NPT presets to run")
	}

	rows := make([]benchmarkRow, len(names))
	var jobs []benchmarkJob
	master := sim.NewSimulationKey(opts.Seed)
	for i, name := range names {
		base, err := presets.Get(name)
		if err != nil {
			return nil, err
		}
		if base.Pressure == nil {
			return nil, fmt.Errorf("preset %q has no pressure; benchmark runs NPT only", name)
		}
		if opts.Steps > 0 {
			base.NStep = opts.Steps
		}
		if err := base.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		henderson, err := eos.PackingFraction(*base.Pressure, sim.DefaultRadius)
		if err != nil {
			return nil, err
		}
		rows[i] = benchmarkRow{Preset: name, Pressure: *base.Pressure, Chains: opts.Chains, Henderson: henderson}
		for c := 0; c < opts.Chains; c++ {
			cfg := *base
			chainSeed := int64(master.ChainKey(c))
			cfg.Seed = &chainSeed
			cfg.Trace = "none"
			jobs = append(jobs, benchmarkJob{
				row:   i,
				chain: c,
				cfg:   &cfg,
				dir:   filepath.Join(opts.OutDir, name, fmt.Sprintf("chain-%02d", c)),
			})
		}
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	bar := pb.New(len(jobs)).SetWriter(progress).Start()

	means := make([][]float64, len(rows))
	starts := make([][]float64, len(rows))
	for i := range means {
		means[i] = make([]float64, opts.Chains)
		starts[i] = make([]float64, opts.Chains)
	}
	queue := make(chan benchmarkJob)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	workers := min(opts.Workers, len(jobs))
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range queue {
				eq, err := runBenchmarkChain(job, opts.Discard)
				mu.Lock()
				if err != nil && firstErr == nil {
					firstErr = err
				}
				means[job.row][job.chain] = eq.Mean
				starts[job.row][job.chain] = float64(eq.Start)
				mu.Unlock()
				bar.Increment()
			}
		}()
	}
	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
	bar.Finish()
	if firstErr != nil {
		return nil, firstErr
	}

	method := eos.MethodMSER
	if opts.Discard != nil {
		method = eos.MethodFixed
	}
	for i := range rows {
		rows[i].Method = method
		rows[i].MeanStart = stat.Mean(starts[i], nil)
		if opts.Chains == 1 {
			rows[i].Mean = means[i][0]
			continue
		}
		mean, std := stat.MeanStdDev(means[i], nil)
		rows[i].Mean = mean
		rows[i].StdErr = std / math.Sqrt(float64(opts.Chains))
	}
	return rows, nil
}

// runBenchmarkChain runs one chain and returns its equilibrated density statistics.
func runBenchmarkChain(job benchmarkJob, discard *float64) (eos.Equilibrated, error) {
	res, err := runSimulation(job.cfg, runOptions{OutDir: job.dir})
	if err != nil {
		return eos.Equilibrated{}, fmt.Errorf("chain %d of %s: %w", job.chain, job.dir, err)
	}
	eq, err := equilibrate(res.Thermo.Density, discard)
	if err != nil {
		return eos.Equilibrated{}, fmt.Errorf("chain %d of %s: %w", job.chain, job.dir, err)
	}
	logrus.Debugf("[%s] mean density %.5f over %d samples from t0=%d (%s)", job.dir, eq.Mean, eq.Samples, eq.Start, eq.Method)
	return eq, nil
}

// benchmarkTable renders one block per preset.
func benchmarkTable(rows []benchmarkRow) string {
	p := message.NewPrinter(lang)
	var b strings.Builder
	for _, r := range rows {
		keys := []string{"βP", "Chains", "Truncation", "φ", "Henderson φ", "Deviation", "v/d²"}
		msg := map[string]string{
			"βP":          p.Sprintf("%g", r.Pressure),
			"Chains":      p.Sprintf("%d", r.Chains),
			"Truncation":  p.Sprintf("%s, mean t0 %.1f", r.Method, r.MeanStart),
			"φ":           p.Sprintf("%.5f ± %.5f", r.Mean, r.StdErr),
			"Henderson φ": p.Sprintf("%.5f", r.Henderson),
			"Deviation":   p.Sprintf("%.2f %%", 100*eos.RelativeDeviation(r.Mean, r.Henderson)),
			"v/d²":        p.Sprintf("%.4f", eos.ReducedVolume(r.Mean)),
		}
		for _, ref := range eos.Reference {
			if ref.Pressure == r.Pressure {
				keys = append(keys, "Reference v/d²")
				msg["Reference v/d²"] = p.Sprintf("%.4f", ref.Volume)
			}
		}
		b.WriteString(fmtTable(r.Preset, keys, msg))
	}
	return b.String()
}

func init() {
	benchmarkCmd.Flags().StringSliceVar(&benchPresets, "preset", nil, "Presets to run (default: every NPT preset)")
	benchmarkCmd.Flags().StringVar(&benchPresetsFile, "presets", "presets.yaml", "Presets file")
	benchmarkCmd.Flags().IntVar(&benchChains, "chains", 4, "Independent chains per preset")
	benchmarkCmd.Flags().IntVar(&benchWorkers, "workers", 4, "Chains run concurrently")
	benchmarkCmd.Flags().IntVar(&benchSteps, "steps", 0, "Override n_step of every preset")
	benchmarkCmd.Flags().Float64Var(&benchDiscard, "discard", 0, "Drop this leading fraction of each chain instead of detecting equilibration with MSER")
	benchmarkCmd.Flags().Int64Var(&benchSeed, "seed", 0, "Master seed")
	benchmarkCmd.Flags().StringVar(&benchOut, "out", "benchmark", "Output directory")

	rootCmd.AddCommand(benchmarkCmd)
}
