package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/contrib-insights/internal/domain"
	"github.com/naka-gawa/contrib-insights/internal/gateway"
	"github.com/naka-gawa/contrib-insights/internal/storage"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Discovers users and saves them as a users file",
	Long: `Searches GitHub users or lists the members of an organization and
saves the result as a JSON users file consumable by the analyze command.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := commandLogger(cmd)

		query, _ := cmd.Flags().GetString("query")
		org, _ := cmd.Flags().GetString("org")
		publicOnly, _ := cmd.Flags().GetBool("public-only")
		maxPages, _ := cmd.Flags().GetInt("max-pages")
		output, _ := cmd.Flags().GetString("output")

		if (query == "") == (org == "") {
			fmt.Fprintln(os.Stderr, "Error: exactly one of --query or --org must be set.")
			os.Exit(1)
		}

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

		var users []domain.UserProfile
		if query != "" {
			users, err = githubGateway.SearchUsers(ctx, query, maxPages)
		} else {
			users, err = githubGateway.ListOrgMembers(ctx, org, publicOnly)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(users) == 0 {
			fmt.Fprintln(os.Stderr, "No users found.")
			os.Exit(1)
		}

		if output == "" {
			if query != "" {
				safe := strings.ReplaceAll(query, " ", "_")
				output = fmt.Sprintf("github_users_search_%s.json", safe)
			} else {
				output = fmt.Sprintf("github_org_members_%s.json", org)
			}
		}
		if err := storage.SaveUsers(output, users); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save users: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Saved %d users to %s\n", len(users), output)
		for i, user := range users {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(users)-10)
				break
			}
			fmt.Printf("  %d. %s %s\n", i+1, user.Login, user.HTMLURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().StringP("query", "q", "", "User search query")
	usersCmd.Flags().String("org", "", "Organization whose members to list")
	usersCmd.Flags().Bool("public-only", false, "Only list publicly-visible organization members")
	usersCmd.Flags().Int("max-pages", 18, "Maximum search result pages to fetch")
	usersCmd.Flags().StringP("output", "o", "", "Output filename (auto-generated if not specified)")
}
