package domain

// DailyPoint is one day of the group-wide daily series.
type DailyPoint struct {
	Date               string `json:"date"`
	TotalContributions int    `json:"total_contributions"`
}

// MonthlyPoint is one month of the group-wide monthly series.
type MonthlyPoint struct {
	Month              string `json:"month"`
	TotalContributions int    `json:"total_contributions"`
}

// UserComparison carries the category breakdown for one user, for
// tabular or stacked-bar rendering.
type UserComparison struct {
	Username           string `json:"username"`
	Name               string `json:"name,omitempty"`
	TotalContributions int    `json:"total_contributions"`
	Commits            int    `json:"commits"`
	Issues             int    `json:"issues"`
	PRs                int    `json:"prs"`
	Reviews            int    `json:"reviews"`
}

// TrendPoint is one day of a single user's trend series. Smoothed is a
// centered rolling mean of the raw counts.
type TrendPoint struct {
	Date          string  `json:"date"`
	Contributions int     `json:"contributions"`
	Smoothed      float64 `json:"smoothed"`
}

// VisualizationData is the chart-ready projection of one analysis:
// sorted daily and monthly series, the user comparison list, and trend
// series for the top-ranked users only.
type VisualizationData struct {
	DailyAggregate   []DailyPoint            `json:"daily_aggregate"`
	MonthlyAggregate []MonthlyPoint          `json:"monthly_aggregate"`
	UserComparison   []UserComparison        `json:"user_comparison"`
	TopUsersTrend    map[string][]TrendPoint `json:"top_users_trend"`
}
