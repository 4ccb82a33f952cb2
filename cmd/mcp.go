package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
)

var (
	inspectModel modelFlags
	inspectLock  bool
	inspectJSON  bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Work with the Master Control Point of a model",
	Long: `The Master Control Point (MCP) is the authoritative record of a model's
building type, member tags, dimensions and validation status. Every load
calculation reads the locked MCP.`,
}

var mcpInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Classify a model and report its MCP",
	Long: `Build the MCP for a model, apply any manual overrides, and report the
derived classification, dimensions, member tags and validation issues.

Examples:
  # Review what the classifier decided
  azload mcp inspect -f warehouse.json

  # Confirm the building type, fix a tag and lock
  azload mcp inspect -f warehouse.json --set-type INDUSTRIAL_WAREHOUSE \
      --tag M12=CRANE_RUNWAY_BEAM --lock

  # Machine-readable snapshot
  azload mcp inspect -f warehouse.json --json`,
	RunE: runMCPInspect,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpInspectCmd)

	inspectModel.register(mcpInspectCmd)
	mcpInspectCmd.Flags().BoolVar(&inspectLock, "lock", false, "Lock the MCP after overrides")
	mcpInspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the MCP snapshot as JSON")
}

func runMCPInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	_, c, err := openSession(cmd.Context(), cfg, logger, inspectModel)
	if err != nil {
		return err
	}
	if inspectLock {
		if err := lockMCP(out, c); err != nil {
			return err
		}
	}

	snap := c.Snapshot()
	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printMCPReport(out, snap, c.Overrides())
	return nil
}

func printMCPReport(out io.Writer, snap *mcp.Snapshot, overrides []mcp.Override) {
	u := asce7.Units{Metric: snap.Model().IsMetric()}
	d := snap.Dimensions

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     MASTER CONTROL POINT - %s\n", snap.ModelID)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "CLASSIFICATION:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Building Type:\t%s\n", snap.BuildingType)
	fmt.Fprintf(w, "  Confidence:\t%.2f\n", snap.BuildingTypeConfidence)
	fmt.Fprintf(w, "  Frame System:\t%s\n", snap.FrameSystem)
	fmt.Fprintf(w, "  Rigidity:\t%s\n", snap.StructuralRigidity)
	fmt.Fprintf(w, "  Height Class:\t%s\n", snap.HeightClassification)
	fmt.Fprintf(w, "  Roof Type:\t%s\n", snap.RoofType)
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintf(out, "DIMENSIONS (%s):\n", u.Length())
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Width:\t%.2f\n", d.BuildingWidth)
	fmt.Fprintf(w, "  Length:\t%.2f\n", d.BuildingLength)
	fmt.Fprintf(w, "  Total Height:\t%.2f\n", d.TotalHeight)
	fmt.Fprintf(w, "  Eave Height:\t%.2f\n", d.EaveHeight)
	fmt.Fprintf(w, "  Mean Roof Height:\t%.2f\n", d.MeanRoofHeight)
	fmt.Fprintf(w, "  Roof Slope:\t%.2f°\n", d.RoofSlope)
	fmt.Fprintf(w, "  Frames:\t%d\n", d.FrameCount)
	if len(d.BaySpacings) > 0 {
		fmt.Fprintf(w, "  Bay Spacings:\t%v\n", d.BaySpacings)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "MEMBER TAGS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Member\tType\tTag\n")
	fmt.Fprintf(w, "  ──────\t────\t───\n")
	for _, mb := range snap.Model().Members {
		tag := string(snap.Tag(mb.ID))
		if tag == "" {
			tag = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", mb.ID, mb.Type, tag)
	}
	w.Flush()
	fmt.Fprintln(out)

	printValidation(out, snap.Validation)

	if len(overrides) > 0 {
		fmt.Fprintln(out, "OVERRIDES:")
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, o := range overrides {
			status := "✓"
			if !o.Accepted {
				status = "✗ " + o.Reason
			}
			target := o.Target
			if target == "" {
				target = "building"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s → %s\t%s\n", o.Kind, target, orDash(o.Before), o.After, status)
		}
		w.Flush()
		fmt.Fprintln(out)
	}

	state := "UNLOCKED"
	if snap.IsLocked {
		state = "LOCKED"
	}
	fmt.Fprintf(out, "  ╔═══════════════════════════════════╗\n")
	fmt.Fprintf(out, "  ║  MCP v%-4d %-24s║\n", snap.Version, state)
	fmt.Fprintf(out, "  ╚═══════════════════════════════════╝\n")
	fmt.Fprintln(out)
}

func printValidation(out io.Writer, v mcp.Validation) {
	fmt.Fprintf(out, "VALIDATION: %s\n", v.Summary())
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	for _, is := range v.Errors {
		fmt.Fprintf(out, "  ✗ %s\n", is)
	}
	for _, is := range v.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", is)
	}
	if len(v.Errors)+len(v.Warnings) == 0 {
		fmt.Fprintln(out, "  ✓ no issues")
	}
	fmt.Fprintln(out)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
