package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadUsers(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expected    []string
		expectError bool
	}{
		{
			name:     "profile objects - logins are extracted in file order",
			content:  `[{"login":"alice","html_url":"https://github.com/alice"},{"login":"bob"}]`,
			expected: []string{"alice", "bob"},
		},
		{
			name:     "plain string list",
			content:  `["alice","bob","carol"]`,
			expected: []string{"alice", "bob", "carol"},
		},
		{
			name:     "profile objects with empty logins are skipped",
			content:  `[{"login":"alice"},{"name":"No Login"}]`,
			expected: []string{"alice"},
		},
		{
			name:        "invalid JSON",
			content:     `{not json`,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, "users.json", tc.content)
			logins, err := LoadUsers(path)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, logins)
		})
	}
}

func TestLoadUsers_MissingFile(t *testing.T) {
	_, err := LoadUsers(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read users file")
}

func TestSaveUsers_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	users := []domain.UserProfile{
		{Login: "alice", HTMLURL: "https://github.com/alice", Type: "User"},
		{Login: "bob"},
	}

	require.NoError(t, SaveUsers(path, users))
	logins, err := LoadUsers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, logins)
}

func analysisFixture() *domain.Analysis {
	ranked := make([]domain.RankedUser, 0, 25)
	for i := 0; i < 25; i++ {
		ranked = append(ranked, domain.RankedUser{
			Username:      string(rune('a' + i)),
			Contributions: 25 - i,
		})
	}
	return &domain.Analysis{
		AggregateStats: &domain.AggregateStats{
			TotalUsers:         25,
			TotalContributions: 100,
			DailyAggregate:     map[string]int{"2024-01-01": 100},
			MonthlyAggregate:   map[string]int{"2024-01": 100},
			TopContributors:    ranked,
		},
		UsersStats:   map[string]*domain.UserStats{},
		AnalysisDate: "2024-06-01T00:00:00Z",
	}
}

func TestSaveAnalysisResults(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "batch")
	viz := &domain.VisualizationData{
		DailyAggregate:   []domain.DailyPoint{{Date: "2024-01-01", TotalContributions: 100}},
		MonthlyAggregate: []domain.MonthlyPoint{{Month: "2024-01", TotalContributions: 100}},
		TopUsersTrend:    map[string][]domain.TrendPoint{},
	}

	paths, err := SaveAnalysisResults(prefix, analysisFixture(), viz)
	require.NoError(t, err)
	require.Equal(t, []string{
		prefix + "_full_analysis.json",
		prefix + "_visualization_data.json",
		prefix + "_summary.json",
	}, paths)

	// The full analysis document round-trips losslessly.
	var analysis domain.Analysis
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &analysis))
	assert.Equal(t, 100, analysis.AggregateStats.TotalContributions)
	assert.Equal(t, map[string]int{"2024-01-01": 100}, analysis.AggregateStats.DailyAggregate)

	var roundTrip domain.VisualizationData
	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, *viz, roundTrip)

	// The summary carries a bounded top slice only.
	var summary domain.Summary
	data, err = os.ReadFile(paths[2])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Len(t, summary.TopContributors, 20)
	assert.Equal(t, 25, summary.Summary.TotalUsers)
}
