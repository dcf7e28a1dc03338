// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

// Sentinel errors distinguishing the per-user failure modes. Callers
// match them with errors.Is; none of them are retried at this layer.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrMalformedResponse = errors.New("malformed response")
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchContributions issues exactly one query for the user's
	// contribution data. from and to must both be zero or both be set.
	FetchContributions(ctx context.Context, login string, from, to time.Time) (*domain.Contributions, error)
	SearchUsers(ctx context.Context, query string, maxPages int) ([]domain.UserProfile, error)
	ListOrgMembers(ctx context.Context, org string, publicOnly bool) ([]domain.UserProfile, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// contributionsQuery mirrors the shape of the contributionsCollection
// response: four category totals plus a calendar of weeks of days.
type contributionsQuery struct {
	User struct {
		Name                    githubv4.String
		Login                   githubv4.String
		ContributionsCollection struct {
			TotalCommitContributions            githubv4.Int
			TotalIssueContributions             githubv4.Int
			TotalPullRequestContributions       githubv4.Int
			TotalPullRequestReviewContributions githubv4.Int
			ContributionCalendar                struct {
				TotalContributions githubv4.Int
				Weeks              []struct {
					ContributionDays []struct {
						Date              githubv4.String
						ContributionCount githubv4.Int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchContributions fetches and flattens one user's contribution calendar.
func (g *GitHubGateway) FetchContributions(ctx context.Context, login string, from, to time.Time) (*domain.Contributions, error) {
	if login == "" {
		return nil, errors.New("login must not be empty")
	}
	if from.IsZero() != to.IsZero() {
		return nil, errors.New("from and to must be supplied together")
	}
	g.logger.Printf("Fetching contribution data for user: %s\n", login)

	fromVar := (*githubv4.DateTime)(nil)
	toVar := (*githubv4.DateTime)(nil)
	if !from.IsZero() {
		fromVar = &githubv4.DateTime{Time: from}
		toVar = &githubv4.DateTime{Time: to}
	}
	variables := map[string]interface{}{
		"login": githubv4.String(login),
		"from":  fromVar,
		"to":    toVar,
	}

	var q contributionsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, classifyQueryError(login, err)
	}

	collection := q.User.ContributionsCollection
	calendar := collection.ContributionCalendar
	contribs := &domain.Contributions{
		Login:              login,
		Name:               string(q.User.Name),
		TotalContributions: int(calendar.TotalContributions),
		TotalCommits:       int(collection.TotalCommitContributions),
		TotalIssues:        int(collection.TotalIssueContributions),
		TotalPRs:           int(collection.TotalPullRequestContributions),
		TotalReviews:       int(collection.TotalPullRequestReviewContributions),
		Daily:              make(map[string]int),
	}
	// Flatten the week structure; week boundaries carry no meaning here.
	for _, week := range calendar.Weeks {
		for _, day := range week.ContributionDays {
			contribs.Daily[string(day.Date)] = int(day.ContributionCount)
		}
	}
	g.logger.Printf("Completed fetching contribution data for %s (%d contributions)\n", login, contribs.TotalContributions)
	return contribs, nil
}

// classifyQueryError maps a GraphQL client error onto the gateway's
// failure taxonomy so callers can react per kind.
func classifyQueryError(login string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Could not resolve to a User"):
		return fmt.Errorf("%w: %s", ErrUserNotFound, login)
	case strings.Contains(msg, "unmarshal"), strings.Contains(msg, "invalid character"), strings.Contains(msg, "unexpected EOF"):
		return fmt.Errorf("%w for %s: %v", ErrMalformedResponse, login, err)
	default:
		return fmt.Errorf("failed to fetch contributions for %s: %w", login, err)
	}
}

// SearchUsers pages through user search results for the given query,
// reading at most maxPages pages of 100 results.
func (g *GitHubGateway) SearchUsers(ctx context.Context, query string, maxPages int) ([]domain.UserProfile, error) {
	g.logger.Printf("Searching users with query: %s\n", query)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var users []domain.UserProfile
	for page := 0; maxPages <= 0 || page < maxPages; page++ {
		result, resp, err := g.restClient.Search.Users(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search users: %w", err)
		}
		for _, u := range result.Users {
			users = append(users, domain.UserProfile{
				Login:   u.GetLogin(),
				HTMLURL: u.GetHTMLURL(),
				Type:    u.GetType(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of users...")
	}
	g.logger.Printf("Found %d users\n", len(users))
	return users, nil
}

// ListOrgMembers lists the members of an organization. With publicOnly
// set, only publicly-visible members are returned.
func (g *GitHubGateway) ListOrgMembers(ctx context.Context, org string, publicOnly bool) ([]domain.UserProfile, error) {
	g.logger.Printf("Listing members of organization: %s\n", org)
	opts := &github.ListMembersOptions{
		PublicOnly:  publicOnly,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var members []domain.UserProfile
	for {
		users, resp, err := g.restClient.Organizations.ListMembers(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of %s: %w", org, err)
		}
		for _, u := range users {
			members = append(members, domain.UserProfile{
				Login:   u.GetLogin(),
				HTMLURL: u.GetHTMLURL(),
				Type:    u.GetType(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of members...")
	}
	g.logger.Printf("Found %d members\n", len(members))
	return members, nil
}
