package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/floralyze/internal/analysis"
	"github.com/san-kum/floralyze/internal/batch"
	"github.com/san-kum/floralyze/internal/config"
	"github.com/san-kum/floralyze/internal/dynamo"
	"github.com/san-kum/floralyze/internal/projection"
	"github.com/san-kum/floralyze/internal/rosefit"
	"github.com/san-kum/floralyze/internal/viz"
)

var (
	// process flags
	jsonOut   string
	csvOut    string
	recompute bool
	workers   int

	// run flags
	configFile string
	b          float64
	dt         float64
	steps      int
	transient  int
	seedX      float64
	seedY      float64
	seedZ      float64
	plane      string
	rotAxis    string
	rotAngle   float64
	fitK       float64
	fitM       float64
	fitPhi     float64
	fitA       float64
	lyapTime   float64
	lyapDt     float64
	lyapEps    float64
	subsample  int
	verbose    bool
)

// main registers commands and flags and executes the root command. It
// exits the process with status 1 if command execution returns an error;
// per-row numerical failures during batch processing are row markers, not
// process failures.
func main() {
	rootCmd := &cobra.Command{
		Use:   "floralyze",
		Short: "thomas attractor floral symmetry lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(
				tint.NewHandler(os.Stderr, &tint.Options{
					Level:      level,
					TimeFormat: time.Kitchen,
				}),
			))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	processCmd := &cobra.Command{
		Use:   "process [params.csv]",
		Short: "enrich a batch of configurations with recomputed Flower Index",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcess,
	}
	processCmd.Flags().StringVar(&jsonOut, "json-out", "", "structured export document path")
	processCmd.Flags().StringVar(&csvOut, "csv-out", "", "enriched table path")
	processCmd.Flags().BoolVar(&recompute, "recompute", false, "run the full numerical pipeline per row")
	processCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the full pipeline for one configuration",
		RunE:  runSingle,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&b, "b", config.DefaultB, "damping parameter")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "trajectory sample spacing")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "trajectory samples")
	runCmd.Flags().IntVar(&transient, "transient", config.DefaultTransient, "samples discarded before analysis")
	runCmd.Flags().Float64Var(&seedX, "seed-x", config.DefaultSeed, "initial x")
	runCmd.Flags().Float64Var(&seedY, "seed-y", config.DefaultSeed, "initial y")
	runCmd.Flags().Float64Var(&seedZ, "seed-z", config.DefaultSeed, "initial z")
	runCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy|yz|zx)")
	runCmd.Flags().StringVar(&rotAxis, "rot-axis", "z", "rotation axis (x|y|z)")
	runCmd.Flags().Float64Var(&rotAngle, "rot-angle", 0, "rotation angle (rad)")
	runCmd.Flags().Float64Var(&fitK, "fit-k", 2, "rhodonea k seed")
	runCmd.Flags().Float64Var(&fitM, "fit-m", 5, "rhodonea m seed")
	runCmd.Flags().Float64Var(&fitPhi, "fit-phi", 0, "rhodonea phi seed")
	runCmd.Flags().Float64Var(&fitA, "fit-a", 1, "rhodonea a seed")
	runCmd.Flags().Float64Var(&lyapTime, "lyap-time", config.DefaultLyapTime, "exponent estimator duration")
	runCmd.Flags().Float64Var(&lyapDt, "lyap-dt", config.DefaultLyapDt, "exponent estimator step")
	runCmd.Flags().Float64Var(&lyapEps, "lyap-eps", config.DefaultLyapEps, "initial perturbation")
	runCmd.Flags().IntVar(&subsample, "subsample", config.DefaultSubsample, "fit subsample size")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the projected attractor in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&b, "b", config.DefaultB, "damping parameter")
	liveCmd.Flags().Float64Var(&dt, "dt", 0.02, "integration step per frame substep")
	liveCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy|yz|zx)")
	liveCmd.Flags().StringVar(&rotAxis, "rot-axis", "z", "rotation axis (x|y|z)")
	liveCmd.Flags().Float64Var(&rotAngle, "rot-angle", 0, "rotation angle (rad)")

	rootCmd.AddCommand(processCmd, runCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	records, badRows, err := batch.LoadCSV(in)
	if err != nil {
		return err
	}
	for _, re := range badRows {
		slog.Warn("skipping malformed row", "line", re.Line, "err", re.Err)
	}
	slog.Info("loaded configurations", "rows", len(records), "skipped", len(badRows))

	if len(records) == 0 && len(badRows) > 0 {
		return fmt.Errorf("no valid configuration rows in %s", args[0])
	}

	opts := batch.DefaultPipelineOptions()
	opts.Recompute = recompute
	opts.Workers = workers
	opts.Fit.SubsampleSize = config.DefaultSubsample

	start := time.Now()
	results := batch.Process(records, opts)
	slog.Info("processed batch", "rows", len(results), "recompute", recompute, "elapsed", time.Since(start))

	for i := range results {
		res := &results[i]
		if res.Err != nil {
			slog.Warn("configuration failed", "id", res.Record.ID, "kind", res.ErrKind(), "err", res.Err)
		} else if res.Invalid {
			slog.Warn("invalid metrics, FI undefined", "id", res.Record.ID)
		}
	}

	if csvOut == "" && jsonOut == "" {
		slog.Info("no output requested, validation only")
		return nil
	}

	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return err
		}
		if err := batch.WriteEnrichedCSV(f, results); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		slog.Info("wrote enriched table", "path", csvOut)
	}

	if jsonOut != "" {
		docs := batch.BuildDocuments(results)
		f, err := os.Create(jsonOut)
		if err != nil {
			return err
		}
		if err := batch.WriteDocuments(f, docs); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		slog.Info("wrote export document", "path", jsonOut, "configs", len(docs))
	}

	return nil
}

func runSingle(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		// CLI flags override config values.
		if !cmd.Flags().Changed("b") {
			b = cfg.B
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("steps") {
			steps = cfg.Steps
		}
		if !cmd.Flags().Changed("transient") {
			transient = cfg.TransientSteps
		}
		if !cmd.Flags().Changed("seed-x") {
			seedX = cfg.Seed.X
		}
		if !cmd.Flags().Changed("seed-y") {
			seedY = cfg.Seed.Y
		}
		if !cmd.Flags().Changed("seed-z") {
			seedZ = cfg.Seed.Z
		}
		if !cmd.Flags().Changed("plane") {
			plane = cfg.Projection.Plane
		}
		if !cmd.Flags().Changed("rot-axis") {
			rotAxis = cfg.Projection.Axis
		}
		if !cmd.Flags().Changed("rot-angle") {
			rotAngle = cfg.Projection.AngleRad
		}
		if !cmd.Flags().Changed("fit-k") {
			fitK = cfg.Rhodonea.K
		}
		if !cmd.Flags().Changed("fit-m") {
			fitM = cfg.Rhodonea.M
		}
		if !cmd.Flags().Changed("fit-phi") {
			fitPhi = cfg.Rhodonea.Phi
		}
		if !cmd.Flags().Changed("fit-a") {
			fitA = cfg.Rhodonea.A
		}
		if !cmd.Flags().Changed("lyap-time") {
			lyapTime = cfg.Lyapunov.Duration
		}
		if !cmd.Flags().Changed("lyap-dt") {
			lyapDt = cfg.Lyapunov.Dt
		}
		if !cmd.Flags().Changed("lyap-eps") {
			lyapEps = cfg.Lyapunov.Perturbation
		}
		if !cmd.Flags().Changed("subsample") {
			subsample = cfg.SubsampleSize
		}
	}

	pl, err := projection.ParsePlane(plane)
	if err != nil {
		return err
	}
	axis, err := projection.ParseAxis(rotAxis)
	if err != nil {
		return err
	}

	rec := &batch.Record{
		ID:             "cli",
		B:              b,
		Dt:             dt,
		Steps:          steps,
		TransientSteps: transient,
		Seed:           dynamo.State{seedX, seedY, seedZ},
		Plane:          pl,
		Rotation:       projection.Rotation{Axis: axis, Angle: rotAngle},
		Rhodonea:       rosefit.Params{K: fitK, M: fitM, Phi: fitPhi, A: fitA},
	}

	opts := batch.DefaultPipelineOptions()
	opts.Fit.SubsampleSize = subsample
	opts.Lyapunov = analysis.LyapunovOptions{
		Duration:     lyapTime,
		Dt:           lyapDt,
		Perturbation: lyapEps,
	}

	slog.Info("running pipeline", "b", b, "steps", steps, "span", rec.SpanEnd())
	start := time.Now()

	m, err := batch.ComputeMetrics(rec, opts)
	if err != nil {
		return err
	}

	fi, fiErr := analysis.FlowerIndex(m.EFlower, m.Lambda)
	slog.Info("pipeline complete", "elapsed", time.Since(start))

	fmt.Println(viz.SummaryTitle.Render("THOMAS FLOWER ANALYSIS"))
	fmt.Println(viz.SummaryLabel.Render("b") + viz.SummaryValue.Render(fmt.Sprintf("%.4f", b)))
	fmt.Println(viz.SummaryLabel.Render("rhodonea") + viz.SummaryValue.Render(
		fmt.Sprintf("k=%.4f m=%.4f phi=%.4f a=%.4f", m.Fit.K, m.Fit.M, m.Fit.Phi, m.Fit.A)))
	fmt.Println(viz.SummaryLabel.Render("E_flower") + viz.SummaryValue.Render(fmt.Sprintf("%.6f", m.EFlower)))
	fmt.Println(viz.SummaryLabel.Render("lambda_max") + viz.SummaryValue.Render(fmt.Sprintf("%.6f", m.Lambda)))
	if fiErr != nil {
		fmt.Println(viz.SummaryLabel.Render("FI") + viz.SummaryWarn.Render("undefined (invalid metrics)"))
	} else {
		fmt.Println(viz.SummaryLabel.Render("FI") + viz.SummaryValue.Render(fmt.Sprintf("%.6f", fi)))
	}

	fmt.Println()
	fmt.Println(plotRhodonea(m.Fit))

	return nil
}

// plotRhodonea charts the fitted radial profile over one angular sweep.
func plotRhodonea(p rosefit.Params) string {
	const n = 160
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		theta := -math.Pi + 2*math.Pi*float64(i)/float64(n-1)
		data[i] = p.Radius(theta)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("fitted r(theta), theta in (-pi, pi]"),
	)
}

func runLive(cmd *cobra.Command, args []string) error {
	pl, err := projection.ParsePlane(plane)
	if err != nil {
		return err
	}
	axis, err := projection.ParseAxis(rotAxis)
	if err != nil {
		return err
	}

	m := viz.NewModel(b, dt, pl, projection.Rotation{Axis: axis, Angle: rotAngle})
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
