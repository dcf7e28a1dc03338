// Package domain contains the core data structures and domain logic for the application.
package domain

// Contributions is the normalized activity record for a single GitHub user,
// built from one contributionsCollection response. It is the core domain
// entity of this application.
type Contributions struct {
	Login              string
	Name               string
	TotalContributions int // total reported by the contribution calendar
	TotalCommits       int
	TotalIssues        int
	TotalPRs           int
	TotalReviews       int
	Daily              map[string]int // "YYYY-MM-DD" -> contribution count
}

// UserProfile is a minimal user identity as returned by user search or
// organization member listings. It round-trips through the users file
// consumed by the analyze command.
type UserProfile struct {
	Login   string `json:"login"`
	Name    string `json:"name,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
	Type    string `json:"type,omitempty"`
}
