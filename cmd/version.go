package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of azload",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
		fmt.Fprintln(cmd.OutOrStdout(), "Master Control Point and load engine for structural frames")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
