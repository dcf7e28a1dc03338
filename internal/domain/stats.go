package domain

// DayCount is a single (date, count) observation.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserStats holds the derived statistics for one user.
type UserStats struct {
	Username            string         `json:"username"`
	Name                string         `json:"name,omitempty"`
	TotalContributions  int            `json:"total_contributions"`
	TotalCommits        int            `json:"total_commits"`
	TotalIssues         int            `json:"total_issues"`
	TotalPRs            int            `json:"total_prs"`
	TotalReviews        int            `json:"total_reviews"`
	ActiveDays          int            `json:"active_days"`
	MaxContributionsDay DayCount       `json:"max_contributions_day"`
	AverageDaily        float64        `json:"average_daily_contributions"`
	MonthlyBreakdown    map[string]int `json:"monthly_breakdown"`
	DailyContributions  map[string]int `json:"daily_contributions"`
}

// RankedUser is one entry of the descending top-contributors ranking.
type RankedUser struct {
	Username      string `json:"username"`
	Name          string `json:"name,omitempty"`
	Contributions int    `json:"contributions"`
}

// AggregateStats accumulates cross-user totals for one batch run.
// Daily buckets are keyed by calendar date, monthly buckets by the
// "YYYY-MM" prefix of the date.
type AggregateStats struct {
	TotalUsers         int            `json:"total_users"`
	TotalContributions int            `json:"total_contributions"`
	TotalCommits       int            `json:"total_commits"`
	TotalIssues        int            `json:"total_issues"`
	TotalPRs           int            `json:"total_prs"`
	TotalReviews       int            `json:"total_reviews"`
	ActiveUsers        int            `json:"active_users"`
	DailyAggregate     map[string]int `json:"daily_aggregate"`
	MonthlyAggregate   map[string]int `json:"monthly_aggregate"`
	TopContributors    []RankedUser   `json:"top_contributors"`
	MostActiveDay      *DayCount      `json:"most_active_day,omitempty"`
	MostActiveMonth    *DayCount      `json:"most_active_month,omitempty"`
	AverageDaily       float64        `json:"average_daily_contributions"`
	MedianDaily        float64        `json:"median_daily_contributions"`
}

// Analysis is the full result of one batch run, combining the aggregate
// accumulator with the per-user statistics it was folded from.
type Analysis struct {
	AggregateStats *AggregateStats       `json:"aggregate_stats"`
	UsersStats     map[string]*UserStats `json:"users_stats"`
	AnalysisDate   string                `json:"analysis_date"`
}

// Summary is the compact report document: aggregate statistics plus a
// bounded slice of the ranking.
type Summary struct {
	Summary         *AggregateStats `json:"summary"`
	TopContributors []RankedUser    `json:"top_contributors"`
}
