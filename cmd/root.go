// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contrib-insights",
	Short: "A CLI tool to aggregate GitHub contribution activity across many users.",
	Long: `contrib-insights fetches per-user contribution calendars from GitHub,
aggregates them into group-wide statistics (daily and monthly totals,
rankings, trend series for the top contributors) and writes the results
as JSON documents ready for charting.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
