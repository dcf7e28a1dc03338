package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// printAnalysisSummary renders the aggregate numbers and the top-10
// contributors table to stdout.
func printAnalysisSummary(analysis *domain.Analysis, failed []string) {
	aggregate := analysis.AggregateStats

	headingColor.Println("\n=== Batch Contribution Analysis Summary ===")
	fmt.Printf("Total Users Analyzed: %d\n", aggregate.TotalUsers)
	fmt.Printf("Active Users: %d\n", aggregate.ActiveUsers)
	fmt.Printf("Total Contributions: %d\n", aggregate.TotalContributions)
	fmt.Printf("Total Commits: %d\n", aggregate.TotalCommits)
	fmt.Printf("Total Issues: %d\n", aggregate.TotalIssues)
	fmt.Printf("Total Pull Requests: %d\n", aggregate.TotalPRs)
	fmt.Printf("Total Reviews: %d\n", aggregate.TotalReviews)

	if len(aggregate.TopContributors) > 0 {
		headingColor.Println("\nTop 10 Contributors:")
		printTopContributors(aggregate.TopContributors, 10)
	}

	if aggregate.MostActiveDay != nil {
		fmt.Printf("\nMost Active Day: %s (%d total contributions)\n",
			aggregate.MostActiveDay.Date, aggregate.MostActiveDay.Count)
	}
	if aggregate.MostActiveMonth != nil {
		fmt.Printf("Most Active Month: %s (%d total contributions)\n",
			aggregate.MostActiveMonth.Date, aggregate.MostActiveMonth.Count)
	}

	if len(failed) > 0 {
		warnColor.Printf("\nFailed to fetch %d users: %v\n", len(failed), failed)
	}
}

// printTopContributors renders the first topN ranking entries as a table.
func printTopContributors(ranked []domain.RankedUser, topN int) {
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Username", "Name", "Contributions"})
	data := make([][]string, 0, len(ranked))
	for i, user := range ranked {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			user.Username,
			user.Name,
			strconv.Itoa(user.Contributions),
		})
	}
	if err := table.Bulk(data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build contributors table: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render contributors table: %v\n", err)
	}
}
