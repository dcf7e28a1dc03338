package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := log.New(io.Discard, "", 0)

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}

	return gateway, server
}

func TestGitHubGateway_FetchContributions(t *testing.T) {
	const calendarResponse = `{"data":{"user":{
		"name":"Alice",
		"login":"alice",
		"contributionsCollection":{
			"totalCommitContributions":3,
			"totalIssueContributions":1,
			"totalPullRequestContributions":2,
			"totalPullRequestReviewContributions":1,
			"contributionCalendar":{
				"totalContributions":5,
				"weeks":[
					{"contributionDays":[
						{"date":"2024-01-01","contributionCount":3},
						{"date":"2024-01-02","contributionCount":0}
					]},
					{"contributionDays":[
						{"date":"2024-01-08","contributionCount":2}
					]}
				]
			}
		}
	}}}`

	testCases := []struct {
		name           string
		login          string
		responseBody   string
		expected       *domain.Contributions
		expectedErrIs  error
		expectedErrMsg string
	}{
		{
			name:         "happy path - calendar weeks are flattened into daily counts",
			login:        "alice",
			responseBody: calendarResponse,
			expected: &domain.Contributions{
				Login:              "alice",
				Name:               "Alice",
				TotalContributions: 5,
				TotalCommits:       3,
				TotalIssues:        1,
				TotalPRs:           2,
				TotalReviews:       1,
				Daily: map[string]int{
					"2024-01-01": 3,
					"2024-01-02": 0,
					"2024-01-08": 2,
				},
			},
		},
		{
			name:          "not found - upstream cannot resolve the login",
			login:         "ghost",
			responseBody:  `{"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User with the login of 'ghost'."}]}`,
			expectedErrIs: ErrUserNotFound,
		},
		{
			name:          "decode failure - response body is not valid JSON",
			login:         "alice",
			responseBody:  `{"data": not-json`,
			expectedErrIs: ErrMalformedResponse,
		},
		{
			name:           "transport failure - server-side error",
			login:          "alice",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectedErrMsg: "failed to fetch contributions for alice",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tc.login)

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			contribs, err := gateway.FetchContributions(context.Background(), tc.login, time.Time{}, time.Time{})

			switch {
			case tc.expectedErrIs != nil:
				assert.ErrorIs(t, err, tc.expectedErrIs)
				assert.Nil(t, contribs)
			case tc.expectedErrMsg != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, contribs)
			}
		})
	}
}

func TestGitHubGateway_FetchContributions_Validation(t *testing.T) {
	gateway, server := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be sent for invalid input")
	}))
	defer server.Close()

	_, err := gateway.FetchContributions(context.Background(), "", time.Time{}, time.Time{})
	assert.ErrorContains(t, err, "login must not be empty")

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = gateway.FetchContributions(context.Background(), "alice", from, time.Time{})
	assert.ErrorContains(t, err, "from and to must be supplied together")
}

func TestGitHubGateway_FetchContributions_DateRangeVariables(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	handler := func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "2024-01-01T00:00:00Z")
		assert.Contains(t, string(body), "2024-12-31T23:59:59Z")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data":{"user":{"login":"alice","contributionsCollection":{"contributionCalendar":{"totalContributions":0,"weeks":[]}}}}}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	contribs, err := gateway.FetchContributions(context.Background(), "alice", from, to)
	require.NoError(t, err)
	assert.Empty(t, contribs.Daily)
}

func TestGitHubGateway_SearchUsers(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.String(), "/search/users")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"total_count":2,"items":[{"login":"alice","html_url":"https://github.com/alice","type":"User"},{"login":"bob","html_url":"https://github.com/bob","type":"User"}]}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	users, err := gateway.SearchUsers(context.Background(), "location:tokyo", 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.UserProfile{
		{Login: "alice", HTMLURL: "https://github.com/alice", Type: "User"},
		{Login: "bob", HTMLURL: "https://github.com/bob", Type: "User"},
	}, users)
}

func TestGitHubGateway_ListOrgMembers(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       []domain.UserProfile
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - members are returned",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.String(), "/orgs/acme/members")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `[{"login":"alice","html_url":"https://github.com/alice","type":"User"}]`)
			},
			expected: []domain.UserProfile{
				{Login: "alice", HTMLURL: "https://github.com/alice", Type: "User"},
			},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to list members of acme",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			members, err := gateway.ListOrgMembers(context.Background(), "acme", false)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, members)
			}
		})
	}
}
