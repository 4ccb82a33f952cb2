package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/exchange"
)

var (
	exportModel  modelFlags
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export staad|sap2000",
	Short: "Export a model with its MCP member tags",
	Long: `Write the model in STAAD.Pro (.std) or SAP2000 (.s2k) text format. Member
tags from the MCP become STAAD groups or SAP2000 group assignments.

Examples:
  # STAAD input on stdout
  azload export staad -f warehouse.json

  # SAP2000 file next to the model
  azload export sap2000 -f warehouse.json -o warehouse.s2k`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"staad", "sap2000"},
	RunE:      runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportModel.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := exchange.ParseFormat(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	_, c, err := openSession(cmd.Context(), cfg, logger, exportModel)
	if err != nil {
		return err
	}

	var text string
	switch format {
	case exchange.FormatSAP2000:
		text, err = c.ExportToSAP2000()
	default:
		text, err = c.ExportToSTAAD()
	}
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if dir := filepath.Dir(exportOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s export written to %s (MCP v%d)\n", format, exportOutput, c.Version())
	return nil
}
