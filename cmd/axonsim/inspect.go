package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/axonsim/internal/analysis"
	"github.com/san-kum/axonsim/internal/config"
	"github.com/san-kum/axonsim/internal/export"
	"github.com/san-kum/axonsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tSTEPS\tLINKS FORMED\tACCEPT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Steps,
			run.Stats.LinksFormed,
			run.Stats.AcceptanceRate(),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no samples in run %s", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  seed: %d  steps: %d\n", meta.Preset, meta.Seed, meta.Steps)
	fmt.Printf("samples: %d\n\n", len(trace))

	series := []struct {
		caption string
		value   func(i int) float64
	}{
		{"filaments", func(i int) float64 { return float64(trace[i].Filaments) }},
		{"nodes", func(i int) float64 { return float64(trace[i].Nodes) }},
		{"links", func(i int) float64 { return float64(trace[i].Links) }},
		{"acceptance", func(i int) float64 { return trace[i].Acceptance }},
	}
	if len(trace) > 1 {
		for _, s := range series {
			data := make([]float64, len(trace))
			for i := range trace {
				data[i] = s.value(i)
			}
			if svgFile != "" {
				path := fmt.Sprintf("%s_%s.svg", svgFile, s.caption)
				if err := os.WriteFile(path, []byte(export.SeriesToSVG(data, 800, 200, "#00ccff")), 0644); err != nil {
					return err
				}
			}
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(s.caption),
			))
			fmt.Println()
		}
	}

	stats := meta.Stats
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "births\t%d\tseed collisions\t%d\n", stats.Births, stats.SeedCollisions)
	fmt.Fprintf(w, "growth accepted\t%d/%d\tcollided\t%d\n", stats.GrowthAccepted, stats.GrowthAttempts, stats.GrowthCollisions)
	fmt.Fprintf(w, "fluct accepted\t%d/%d\trejected\t%d\n", stats.FluctAccepted, stats.FluctAttempts, stats.FluctRejected)
	fmt.Fprintf(w, "links formed\t%d\tbroken\t%d\n", stats.LinksFormed, stats.LinksBroken)
	for _, name := range sortedKeys(meta.Metrics) {
		fmt.Fprintf(w, "%s\t%.6g\n", name, meta.Metrics[name])
	}
	return w.Flush()
}

// histogram bins a file written by a run: angle or energy values, or
// section points for the pair and neighbor distance histograms.
func histogram(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var h analysis.Histogram
	switch histKind {
	case "angle", "energy":
		vals, err := analysis.ReadValues(f)
		if err != nil {
			return err
		}
		if histKind == "angle" {
			h = analysis.AngleHistogram(vals, bins)
		} else {
			h = analysis.EnergyHistogram(vals, maxValue, bins)
		}
		mean, std := analysis.Summary(vals)
		fmt.Fprintf(os.Stderr, "n=%d mean=%.6g std=%.6g\n", len(vals), mean, std)
	case "pairs", "neighbors":
		pts, err := analysis.ReadPoints(f)
		if err != nil {
			return err
		}
		if histKind == "pairs" {
			h = analysis.PairDistanceHistogram(pts, radius, bins)
		} else {
			h = analysis.NeighborDistanceHistogram(pts, radius, within, bins)
		}
		if svgFile != "" {
			if err := os.WriteFile(svgFile, []byte(export.CrossSectionSVG(pts, radius, 400)), 0644); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown histogram kind %q", histKind)
	}

	if h.Count > 0 {
		fmt.Fprintln(os.Stderr, asciigraph.Plot(h.Freqs(), asciigraph.Height(8), asciigraph.Caption(histKind)))
	}
	_, err = h.WriteTo(os.Stdout)
	return err
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range config.ListPresets() {
			fmt.Fprintf(w, "%s\t%s\n", name, config.Descriptions[name])
		}
		return w.Flush()
	}
	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownPreset, args[0], config.ListPresets())
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
