package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/diagram"
	"github.com/Abaw1984/azload-sub000/internal/loads"
)

var (
	combineModel   modelFlags
	combineOptions loadFlags
	combineASD     bool
	combineAll     bool
)

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Calculate factored load combinations",
	Long: `Generate loads for a model and combine the resultant of each load type
using the ASCE 7-16 Chapter 2 combinations.

Load Types:
  D  - Dead load
  L  - Live load (crane loads are combined as live load)
  Lr - Roof live load (the roof share of the live load results)
  S  - Snow load
  W  - Wind load
  E  - Seismic load

Load types that were not calculated contribute zero and are listed as
absent for each combination.

Examples:
  # LRFD combinations, governing result only
  azload combine -f warehouse.json

  # Allowable stress design, all combinations
  azload combine -f warehouse.json --asd --all`,
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineModel.register(combineCmd)
	combineOptions.register(combineCmd)
	combineCmd.Flags().BoolVar(&combineASD, "asd", false, "Use ASD (Section 2.4) instead of LRFD (Section 2.3)")
	combineCmd.Flags().BoolVarP(&combineAll, "all", "a", false, "Show all load combination results")
}

func runCombine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	session, c, err := openSession(cmd.Context(), cfg, logger, combineModel)
	if err != nil {
		return err
	}
	snap, results, err := runLoads(cmd.Context(), out, cfg, logger, session, c, combineOptions)
	if err != nil {
		return err
	}

	method := asce7.LRFD
	section := "2.3"
	if combineASD {
		method, section = asce7.ASD, "2.4"
	}
	combos := loads.GenerateCombinations(results, method)
	gov, ok := loads.Governing(combos)
	if !ok {
		return fmt.Errorf("no %s combinations", method)
	}
	u := asce7.Units{Metric: snap.Model().IsMetric()}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "          ASCE 7-16 %s LOAD COMBINATIONS - %s\n", method, snap.ModelID)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "RESULTANT BY LOAD TYPE (%s):\n", u.Force())
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	totals := loads.Totals(results)
	for _, lt := range asce7.CombinationTypes {
		f, ok := totals[lt]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s:\t(%.3f, %.3f, %.3f)\n", lt, f.X, f.Y, f.Z)
	}
	w.Flush()
	fmt.Fprintln(out)

	if combineAll {
		fmt.Fprintf(out, "LOAD COMBINATIONS (ASCE 7-16 Section %s):\n", section)
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  #\tCombination\tForce (%s)\t|F|\tAbsent\n", u.Force())
		fmt.Fprintf(w, "  ─\t───────────\t─────────\t───\t──────\n")
		for _, cl := range combos {
			marker := ""
			if cl.Combination.ID == gov.Combination.ID {
				marker = " ← GOVERNS"
			}
			absent := make([]string, len(cl.Absent))
			for i, a := range cl.Absent {
				absent[i] = string(a)
			}
			fmt.Fprintf(w, "  %s\t%s\t(%.2f, %.2f, %.2f)\t%.2f%s\t%s\n",
				cl.Combination.ID, cl.Combination.Name, cl.Force.X, cl.Force.Y, cl.Force.Z, cl.Magnitude, marker, orDash(strings.Join(absent, ",")))
		}
		w.Flush()
		fmt.Fprint(out, diagram.DrawCombinationBars(combos, u.Force()))
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "RESULT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  Governing Combination: %s (%s)\n", gov.Combination.ID, gov.Combination.Description)
	fmt.Fprintln(out)
	fmt.Fprint(out, diagram.DrawSummaryBox("GOVERNING RESULTANT", []string{
		fmt.Sprintf("%s = %.2f %s", gov.Combination.Name, gov.Magnitude, u.Force()),
		fmt.Sprintf("F = (%.2f, %.2f, %.2f)", gov.Force.X, gov.Force.Y, gov.Force.Z),
	}))
	fmt.Fprintln(out)
	return nil
}
