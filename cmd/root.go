package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/config"
	"github.com/Abaw1984/azload-sub000/internal/logging"
	"github.com/Abaw1984/azload-sub000/internal/version"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "azload",
	Short: "Structural model classification and ASCE 7-16 load generation",
	Long: `azload - Master Control Point and load engine for steel frames

azload reads a parsed structural model, classifies the building and its
members, and keeps the result in a Master Control Point (MCP). Once an
engineer has reviewed and locked the MCP, the load engine generates:
  - Dead and live loads (ASCE 7-16 Chapters 3 and 4)
  - Snow loads with parapet drift (Chapter 7)
  - Wind loads, directional procedure (Chapters 26-27)
  - Seismic equivalent lateral force loads (Chapter 12)
  - Crane wheel, lateral and longitudinal loads (Section 4.9)
  - LRFD and ASD load combinations (Chapter 2)

Locked models can be exported to STAAD.Pro and SAP2000.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   azload v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   MCP and load engine for structural frames               ║")
		fmt.Fprintf(out, "  ║   %-56s║\n", version.Code)
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Workflow:")
		fmt.Fprintln(out, "    • azload mcp inspect -f model.json      review classification")
		fmt.Fprintln(out, "    • azload mcp inspect -f model.json --lock")
		fmt.Fprintln(out, "    • azload loads -f model.json            generate loads")
		fmt.Fprintln(out, "    • azload combine -f model.json --all    factored combinations")
		fmt.Fprintln(out, "    • azload export staad -f model.json     STAAD.Pro input")
		fmt.Fprintln(out, "    • azload serve                          JSON API")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'azload --help' to see available commands.")
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

// loadConfig reads the --config file and applies --log-level
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newLogger writes to stderr so reports on stdout stay clean
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(w, cfg.Log.Level, cfg.Log.Format)
}
