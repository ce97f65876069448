package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/config"
	"github.com/san-kum/axonsim/internal/energy"
	"github.com/san-kum/axonsim/internal/export"
	"github.com/san-kum/axonsim/internal/metrics"
	"github.com/san-kum/axonsim/internal/sim"
	"github.com/san-kum/axonsim/internal/storage"
	"github.com/san-kum/axonsim/internal/viz"
)

const energiesFile = "energies.dat"

func runMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewLinkDensity(),
		metrics.NewAcceptance(),
		metrics.NewMeanLength(),
		metrics.NewBending(energy.NewCurvature(cfg.Axon.PersistenceLength)),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	if ensemble > 1 {
		return runEnsemble(ctx, st, cfg, log)
	}

	a, err := newAxon(cfg, cfg.Seed, log)
	if err != nil {
		return err
	}
	runID := storage.NewRunID(cfg.Preset)
	runDir := st.Dir(runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	runner := sim.New(a, log)
	for _, m := range runMetrics(cfg) {
		runner.AddMetric(m)
	}
	if cfg.Output.SceneEvery > 0 {
		runner.AddObserver(&sim.SceneWriter{Dir: runDir, Every: cfg.Output.SceneEvery})
	}
	if len(cfg.Output.Sections) > 0 {
		every := cfg.Output.SectionsEvery
		if every <= 0 {
			every = cfg.Steps
		}
		runner.AddObserver(&sim.SectionWriter{Dir: runDir, Every: every, Heights: cfg.Output.Sections})
	}
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		runner.AddObserver(metrics.NewExporter(reg))
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "addr", metricsAddr, "err", err)
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", "addr", metricsAddr)
	}

	log.Info("run started", "id", runID, "preset", cfg.Preset, "seed", cfg.Seed, "steps", cfg.Steps)
	start := time.Now()
	result, err := runner.Run(ctx, sim.Config{Steps: cfg.Steps, ReportEvery: cfg.Output.ReportEvery})
	if err != nil && result == nil {
		return err
	}
	if serr := st.Save(runID, cfg, result); serr != nil {
		return fmt.Errorf("failed to save run: %w", serr)
	}
	if samples := a.EnergySamples(); len(samples) > 0 {
		if werr := writeTo(filepath.Join(runDir, energiesFile), func(w io.Writer) error {
			return export.WriteValues(w, samples)
		}); werr != nil {
			return werr
		}
	}

	printResult(runID, result, time.Since(start))
	return err
}

func runEnsemble(ctx context.Context, st *storage.Store, cfg *config.Config, log *slog.Logger) error {
	build := func(s int64) (*axon.Axon, error) { return newAxon(cfg, s, log) }
	ens := sim.NewEnsemble(build, ensemble, cfg.Seed, func() []sim.Metric { return runMetrics(cfg) })

	start := time.Now()
	results, err := ens.Run(ctx, sim.Config{Steps: cfg.Steps, ReportEvery: cfg.Output.ReportEvery})
	if err != nil {
		return err
	}
	log.Info("ensemble finished", "runs", len(results), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tFILAMENTS\tNODES\tLINKS\tACCEPT")
	for i, result := range results {
		run := *cfg
		run.Seed = cfg.Seed + int64(i)
		runID := storage.NewRunID(cfg.Preset)
		if err := st.Save(runID, &run, result); err != nil {
			return fmt.Errorf("failed to save run %d: %w", i, err)
		}
		last := result.Samples[len(result.Samples)-1]
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.3f\n", runID, run.Seed, last.Filaments, last.Nodes, last.Links, last.Acceptance)
	}
	return w.Flush()
}

func printResult(runID string, result *sim.Result, elapsed time.Duration) {
	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d (%v)\n", result.StepsTaken, elapsed.Round(time.Millisecond))
	if n := len(result.Samples); n > 0 {
		last := result.Samples[n-1]
		fmt.Printf("filaments: %d  nodes: %d  links: %d\n", last.Filaments, last.Nodes, last.Links)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	w.Flush()
}

// writeScene grows an axon for the configured steps and writes it in the
// chosen format.
func writeScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newAxon(cfg, cfg.Seed, newLogger(cfg))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := sim.New(a, nil).RunWithCallback(ctx, cfg.Steps, func(int, *axon.Axon) bool { return true }); err != nil {
		return err
	}

	var emit func(w io.Writer) error
	switch format {
	case "pov":
		emit = func(w io.Writer) error { return export.WriteScene(w, export.SceneOf(a)) }
	case "section":
		z := sectionZ
		if !cmd.Flags().Changed("section") {
			z = shortestTip(a) / 2
		}
		emit = func(w io.Writer) error {
			_, err := io.WriteString(w, export.CrossSectionSVG(a.CrossSection(z), cfg.Axon.Radius, 400))
			return err
		}
	case "side":
		c := viz.NewCanvas(60, 80)
		viz.DrawSide(c, a)
		emit = func(w io.Writer) error {
			_, err := io.WriteString(w, export.CanvasToSVG(c, 4, string(viz.GetTheme(theme).Filament)))
			return err
		}
	default:
		return fmt.Errorf("unknown scene format %q", format)
	}
	if outFile == "" {
		return emit(os.Stdout)
	}
	return writeTo(outFile, emit)
}

func shortestTip(a *axon.Axon) float64 {
	h := math.Inf(1)
	for _, f := range a.Filaments() {
		h = math.Min(h, f.Tip().Z)
	}
	if math.IsInf(h, 1) {
		return 0
	}
	return h
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
