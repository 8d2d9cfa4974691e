package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thundertrack/frameapi/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the thunderframe CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "thunderframe version %s\n", api.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
