package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/diagram"
	"github.com/Abaw1984/azload-sub000/internal/loads"
)

var (
	loadsModel   modelFlags
	loadsOptions loadFlags
	loadsDiagram string
	loadsDetail  bool
	loadsJSON    bool
)

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Generate ASCE 7-16 loads for a model",
	Long: `Lock the model's MCP and generate loads with every selected calculator.

Site parameters come from the configuration file (site section) and can be
overridden per load type with a parameter file:

  wind:
    basicWindSpeed: 140
    exposureCategory: D
  seismic:
    ss: 1.5
    s1: 0.6

Examples:
  # All load types with site defaults
  azload loads -f warehouse.json --set-type INDUSTRIAL_WAREHOUSE

  # Wind and seismic only, with a diagram of the loads
  azload loads -f warehouse.json -t wind,seismic --diagram loads.png

  # Every individual load
  azload loads -f warehouse.json -p site.yaml --detail`,
	RunE: runLoadsCmd,
}

func init() {
	rootCmd.AddCommand(loadsCmd)

	loadsModel.register(loadsCmd)
	loadsOptions.register(loadsCmd)
	loadsCmd.Flags().StringVar(&loadsDiagram, "diagram", "", "Write a frame elevation with load arrows (.png, .svg, .pdf)")
	loadsCmd.Flags().BoolVar(&loadsDetail, "detail", false, "List every generated load")
	loadsCmd.Flags().BoolVar(&loadsJSON, "json", false, "Print the results as JSON")
}

func runLoadsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	session, c, err := openSession(cmd.Context(), cfg, logger, loadsModel)
	if err != nil {
		return err
	}
	snap, results, err := runLoads(cmd.Context(), out, cfg, logger, session, c, loadsOptions)
	if err != nil {
		return err
	}

	if loadsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     ASCE 7-16 LOADS - %s (MCP v%d)\n", snap.ModelID, snap.Version)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "  Building Type: %s\n", snap.BuildingType)
	fmt.Fprintln(out)

	for _, r := range results {
		printResult(out, r, loadsDetail)
	}

	if loadsDiagram != "" {
		data := diagram.NewFrameDiagram(snap.ModelID+" loads", snap.Model(), snap.Axes, results...)
		if err := diagram.ExportFrameDiagram(data, loadsDiagram); err != nil {
			return fmt.Errorf("writing diagram: %w", err)
		}
		fmt.Fprintf(out, "  Diagram written to %s", loadsDiagram)
		if data.OutOfPlane > 0 {
			fmt.Fprintf(out, " (%d out-of-plane load(s) not drawn)", data.OutOfPlane)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
	}
	return nil
}

func printResult(out io.Writer, r *loads.Result, detail bool) {
	fmt.Fprintf(out, "%s LOADS:\n", r.LoadType)
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Loads Generated:\t%d\n", r.Summary.LoadCount)
	t := r.Summary.TotalForce
	fmt.Fprintf(w, "  Total Force:\t(%.3f, %.3f, %.3f) %s\n", t.X, t.Y, t.Z, r.ForceUnit)
	if r.Summary.MaxPressure != 0 || r.Summary.MinPressure != 0 {
		p := asce7.Units{Metric: r.ForceUnit == "kN"}.Pressure()
		fmt.Fprintf(w, "  Pressure Range:\t%.4f to %.4f %s\n", r.Summary.MinPressure, r.Summary.MaxPressure, p)
	}
	for _, k := range slices.Sorted(maps.Keys(r.Details)) {
		fmt.Fprintf(w, "  %s:\t%.4g\n", k, r.Details[k])
	}
	w.Flush()

	if len(r.Stories) > 0 {
		fmt.Fprint(out, diagram.DrawStoryProfile(r.Stories, r.LengthUnit, r.ForceUnit))
	}

	if detail && len(r.Loads) > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  ID\tTarget\tZone\tShape\tDirection\tMagnitude\n")
		fmt.Fprintf(w, "  ──\t──────\t────\t─────\t─────────\t─────────\n")
		for _, l := range r.Loads {
			unit := r.ForceUnit
			if l.Distribution == loads.Uniform {
				unit += "/" + r.LengthUnit
			}
			d := l.Direction
			fmt.Fprintf(w, "  %s\t%s %s\t%s\t%s\t(%.2f, %.2f, %.2f)\t%.4f %s\n",
				l.ID, l.Target, l.TargetID, orDash(l.Zone), l.Distribution, d.X, d.Y, d.Z, l.Magnitude, unit)
		}
		w.Flush()
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, warn := range r.Warnings {
			fmt.Fprintf(out, "  ⚠ %s\n", warn)
		}
	}
	if len(r.CodeReferences) > 0 {
		fmt.Fprintln(out)
		for _, ref := range r.CodeReferences {
			fmt.Fprintf(out, "  § %s\n", ref)
		}
	}
	fmt.Fprintln(out)
}
