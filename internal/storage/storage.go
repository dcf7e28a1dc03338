// Package storage handles loading of user lists and persistence of the
// analysis documents as JSON files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

// summaryTopN bounds the ranking slice embedded in the summary document.
const summaryTopN = 20

// LoadUsers reads a users file and returns the logins in file order.
// Both a plain list of login strings and a list of profile objects
// (as written by the users command) are accepted.
func LoadUsers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file %s: %w", path, err)
	}

	var profiles []domain.UserProfile
	if err := json.Unmarshal(data, &profiles); err == nil {
		logins := make([]string, 0, len(profiles))
		for _, profile := range profiles {
			if profile.Login != "" {
				logins = append(logins, profile.Login)
			}
		}
		return logins, nil
	}

	var logins []string
	if err := json.Unmarshal(data, &logins); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}
	return logins, nil
}

// SaveUsers writes user profiles as a JSON document consumable by LoadUsers.
func SaveUsers(path string, users []domain.UserProfile) error {
	return writeJSON(path, users)
}

// SaveUserStats writes a single user's statistics record.
func SaveUserStats(path string, userStats *domain.UserStats) error {
	return writeJSON(path, userStats)
}

// SaveAnalysisResults persists a batch run as three documents sharing a
// filename prefix: the full analysis, the visualization projection, and
// a compact summary. It returns the written paths in that order.
func SaveAnalysisResults(prefix string, analysis *domain.Analysis, viz *domain.VisualizationData) ([]string, error) {
	paths := []string{
		prefix + "_full_analysis.json",
		prefix + "_visualization_data.json",
		prefix + "_summary.json",
	}

	if err := writeJSON(paths[0], analysis); err != nil {
		return nil, err
	}
	if err := writeJSON(paths[1], viz); err != nil {
		return nil, err
	}

	topContributors := analysis.AggregateStats.TopContributors
	if len(topContributors) > summaryTopN {
		topContributors = topContributors[:summaryTopN]
	}
	summary := &domain.Summary{
		Summary:         analysis.AggregateStats,
		TopContributors: topContributors,
	}
	if err := writeJSON(paths[2], summary); err != nil {
		return nil, err
	}
	return paths, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
