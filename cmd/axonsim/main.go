package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/axonsim/internal/axon"
	"github.com/san-kum/axonsim/internal/config"
	"github.com/san-kum/axonsim/internal/energy"
	"github.com/san-kum/axonsim/internal/logging"
	"github.com/san-kum/axonsim/internal/random"
	"github.com/san-kum/axonsim/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	configFile  string
	preset      string
	seed        int64
	steps       int
	ensemble    int
	metricsAddr string
	outFile     string
	// hist
	histKind string
	bins     int
	radius   float64
	within   float64
	maxValue float64
	svgFile  string
	theme    string
	// scene
	format   string
	sectionZ float64
)

// main registers the commands and runs the preset menu when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "axonsim",
		Short:        "microtubule bundle simulation in an axon",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(config.ListPresets(), config.Descriptions, openLive())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "run directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the results",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	configFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of independent runs, seeded consecutively")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	configFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	sceneCmd := &cobra.Command{
		Use:   "scene",
		Short: "grow an axon and write a POV-Ray scene or an SVG view",
		Args:  cobra.NoArgs,
		RunE:  writeScene,
	}
	configFlags(sceneCmd)
	sceneCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	sceneCmd.Flags().StringVar(&format, "format", "pov", "pov, section (SVG cross section) or side (SVG side view)")
	sceneCmd.Flags().Float64Var(&sectionZ, "section", 0, "cross-section height (default half the shortest filament)")
	sceneCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme of the side view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot the trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&svgFile, "svg", "", "also write each trace series as <prefix>_<series>.svg")

	histCmd := &cobra.Command{
		Use:   "hist [file]",
		Short: "histogram a section, angle or energy file",
		Args:  cobra.ExactArgs(1),
		RunE:  histogram,
	}
	histCmd.Flags().StringVar(&histKind, "kind", "angle", "angle, energy, pairs or neighbors")
	histCmd.Flags().IntVar(&bins, "bins", 20, "number of bins")
	histCmd.Flags().Float64Var(&radius, "radius", 2, "axon radius (pairs, neighbors)")
	histCmd.Flags().Float64Var(&within, "within", 0.1, "neighbor search range (neighbors)")
	histCmd.Flags().Float64Var(&maxValue, "max", 10, "upper bound (energy)")
	histCmd.Flags().StringVar(&svgFile, "svg", "", "also draw the section points as SVG (pairs, neighbors)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, sceneCmd, listCmd, showCmd, histCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
}

// loadConfig resolves the preset, then the config file, then explicit
// flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownPreset, preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, os.Stderr)
}

// newAxon builds an axon from cfg with its own random stream.
func newAxon(cfg *config.Config, seed int64, log *slog.Logger) (*axon.Axon, error) {
	p := cfg.Params()
	return axon.New(p, random.New(seed),
		axon.WithHamiltonian(energy.NewCurvature(p.PersistenceLength)),
		axon.WithLogger(log))
}

// openLive returns the picker callback used by the bare command.
func openLive() viz.Opener {
	return func(name string) (viz.Model, error) {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return viz.Model{}, fmt.Errorf("%w: %s", config.ErrUnknownPreset, name)
		}
		return liveModel(name, cfg, 0)
	}
}

// liveModel stops after maxSteps, or never when it is zero. Logging is
// discarded while the alternate screen is active.
func liveModel(name string, cfg *config.Config, maxSteps int) (viz.Model, error) {
	build := func() (*axon.Axon, error) {
		return newAxon(cfg, cfg.Seed, logging.Discard())
	}
	return viz.NewModel(name, build, maxSteps)
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		preset = args[0]
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := cfg.Preset
	if name == "" {
		name = "axon"
	}
	limit := 0
	if cmd.Flags().Changed("steps") {
		limit = cfg.Steps
	}
	m, err := liveModel(name, cfg, limit)
	if err != nil {
		return err
	}
	return viz.Run(m.WithTheme(theme))
}
