// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/contrib-insights/internal/gateway"
	"github.com/naka-gawa/contrib-insights/internal/storage"
	"github.com/naka-gawa/contrib-insights/internal/usecase"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetches and aggregates contributions for a list of users",
	Long: `Fetches contribution calendars for every user in the given users file,
aggregates them into group statistics and saves the full analysis,
visualization data and summary as JSON files.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := commandLogger(cmd)

		usersFile, _ := cmd.Flags().GetString("users-file")
		year, _ := cmd.Flags().GetInt("year")
		outputPrefix, _ := cmd.Flags().GetString("output-prefix")
		maxWorkers, _ := cmd.Flags().GetInt("max-workers")
		limit, _ := cmd.Flags().GetInt("limit")
		summaryOnly, _ := cmd.Flags().GetBool("summary-only")

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		usernames, err := storage.LoadUsers(usersFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading users: %v\n", err)
			os.Exit(1)
		}
		if len(usernames) == 0 {
			fmt.Fprintf(os.Stderr, "No users found in %s\n", usersFile)
			os.Exit(1)
		}
		if limit > 0 && limit < len(usernames) {
			usernames = usernames[:limit]
		}
		fmt.Printf("Processing %d users from %s\n", len(usernames), usersFile)

		from, to := yearRange(year)

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		batchFetcher := usecase.NewBatchFetcher(githubGateway, logger)

		batch, err := batchFetcher.FetchAll(ctx, usernames, from, to, maxWorkers)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		analyzer := usecase.NewAnalyzer(logger)
		analysis := analyzer.Analyze(batch.Contributions)
		viz := usecase.BuildVisualization(analysis, usecase.DefaultTopTrendUsers)

		printAnalysisSummary(analysis, batch.Failed)

		if !summaryOnly {
			paths, err := storage.SaveAnalysisResults(outputPrefix, analysis, viz)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save analysis results: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Analysis results saved:")
			for _, path := range paths {
				fmt.Printf("  - %s\n", path)
			}
		}
	},
}

// commandLogger builds the logger used across commands: silent by
// default, stderr under --verbose (inherited from the root command).
func commandLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// yearRange translates an optional year into the inclusive instant
// range covering it. A zero year means no range at all.
func yearRange(year int) (time.Time, time.Time) {
	if year == 0 {
		return time.Time{}, time.Time{}
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("users-file", "f", "", "JSON file containing the user list (required)")
	analyzeCmd.MarkFlagRequired("users-file")
	analyzeCmd.Flags().Int("year", 0, "Specific year to analyze (default: the last 12 months)")
	analyzeCmd.Flags().StringP("output-prefix", "o", "batch_analysis", "Output files prefix")
	analyzeCmd.Flags().Int("max-workers", 3, "Maximum parallel workers")
	analyzeCmd.Flags().Int("limit", 0, "Limit number of users to process")
	analyzeCmd.Flags().Bool("summary-only", false, "Only show the summary, do not save files")
}
