package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/contrib-insights/internal/gateway"
	"github.com/naka-gawa/contrib-insights/internal/storage"
	"github.com/naka-gawa/contrib-insights/internal/usecase"
)

var contributionsCmd = &cobra.Command{
	Use:   "contributions <username>",
	Short: "Fetches and analyzes contributions for a single user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := commandLogger(cmd)
		username := args[0]

		year, _ := cmd.Flags().GetInt("year")
		output, _ := cmd.Flags().GetString("output")
		summaryOnly, _ := cmd.Flags().GetBool("summary-only")

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		from, to := yearRange(year)
		contribs, err := githubGateway.FetchContributions(ctx, username, from, to)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		userStats := usecase.AnalyzeUser(contribs)

		headingColor.Printf("\n=== Contribution Summary for %s ===\n", userStats.Username)
		if userStats.Name != "" {
			fmt.Printf("Name: %s\n", userStats.Name)
		}
		fmt.Printf("Total Contributions: %d\n", userStats.TotalContributions)
		fmt.Printf("Total Commits: %d\n", userStats.TotalCommits)
		fmt.Printf("Total Issues: %d\n", userStats.TotalIssues)
		fmt.Printf("Total Pull Requests: %d\n", userStats.TotalPRs)
		fmt.Printf("Total Reviews: %d\n", userStats.TotalReviews)
		fmt.Printf("Active Days: %d\n", userStats.ActiveDays)
		fmt.Printf("Average Daily Contributions: %.2f\n", userStats.AverageDaily)
		if userStats.MaxContributionsDay.Date != "" {
			fmt.Printf("Most Active Day: %s (%d contributions)\n",
				userStats.MaxContributionsDay.Date, userStats.MaxContributionsDay.Count)
		}
		if len(userStats.MonthlyBreakdown) > 0 {
			months := make([]string, 0, len(userStats.MonthlyBreakdown))
			for month := range userStats.MonthlyBreakdown {
				months = append(months, month)
			}
			sort.Strings(months)
			fmt.Println("Monthly Breakdown:")
			for _, month := range months {
				fmt.Printf("  %s: %d\n", month, userStats.MonthlyBreakdown[month])
			}
		}

		if !summaryOnly {
			if output == "" {
				suffix := ""
				if year != 0 {
					suffix = fmt.Sprintf("_%d", year)
				}
				output = fmt.Sprintf("github_contributions_%s%s.json", username, suffix)
			}
			if err := storage.SaveUserStats(output, userStats); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save contribution data: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Contribution data saved to %s\n", output)
		}
	},
}

func init() {
	rootCmd.AddCommand(contributionsCmd)
	contributionsCmd.Flags().Int("year", 0, "Specific year to fetch (default: the last 12 months)")
	contributionsCmd.Flags().StringP("output", "o", "", "Output filename (auto-generated if not specified)")
	contributionsCmd.Flags().Bool("summary-only", false, "Only show the summary, do not save the full data")
}
