package usecase

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

// DefaultTopTrendUsers bounds the trend map to the highest-ranked users.
const DefaultTopTrendUsers = 10

// smoothingWindow is the width of the centered rolling mean applied to
// each trend series.
const smoothingWindow = 7

// BuildVisualization projects an analysis into chart-ready series. It
// performs no I/O; the input analysis is not modified. Trend series are
// built only for the topK highest-ranked users and contain only dates
// present in that user's own record.
func BuildVisualization(analysis *domain.Analysis, topK int) *domain.VisualizationData {
	aggregate := analysis.AggregateStats

	daily := make([]domain.DailyPoint, 0, len(aggregate.DailyAggregate))
	for date, total := range aggregate.DailyAggregate {
		daily = append(daily, domain.DailyPoint{Date: date, TotalContributions: total})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	monthly := make([]domain.MonthlyPoint, 0, len(aggregate.MonthlyAggregate))
	for month, total := range aggregate.MonthlyAggregate {
		monthly = append(monthly, domain.MonthlyPoint{Month: month, TotalContributions: total})
	}
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month })

	comparison := make([]domain.UserComparison, 0, len(analysis.UsersStats))
	for _, userStats := range analysis.UsersStats {
		comparison = append(comparison, domain.UserComparison{
			Username:           userStats.Username,
			Name:               userStats.Name,
			TotalContributions: userStats.TotalContributions,
			Commits:            userStats.TotalCommits,
			Issues:             userStats.TotalIssues,
			PRs:                userStats.TotalPRs,
			Reviews:            userStats.TotalReviews,
		})
	}
	sort.Slice(comparison, func(i, j int) bool {
		if comparison[i].TotalContributions != comparison[j].TotalContributions {
			return comparison[i].TotalContributions > comparison[j].TotalContributions
		}
		return comparison[i].Username < comparison[j].Username
	})

	return &domain.VisualizationData{
		DailyAggregate:   daily,
		MonthlyAggregate: monthly,
		UserComparison:   comparison,
		TopUsersTrend:    buildTrendMap(analysis, topK),
	}
}

// buildTrendMap creates the per-user trend series for the top-ranked
// users, ascending by date.
func buildTrendMap(analysis *domain.Analysis, topK int) map[string][]domain.TrendPoint {
	if topK < 0 {
		topK = 0
	}
	top := analysis.AggregateStats.TopContributors
	if len(top) > topK {
		top = top[:topK]
	}
	trend := make(map[string][]domain.TrendPoint, len(top))
	for _, ranked := range top {
		userStats, ok := analysis.UsersStats[ranked.Username]
		if !ok {
			continue
		}
		dates := make([]string, 0, len(userStats.DailyContributions))
		for date := range userStats.DailyContributions {
			dates = append(dates, date)
		}
		sort.Strings(dates)
		series := make([]domain.TrendPoint, len(dates))
		for i, date := range dates {
			series[i] = domain.TrendPoint{Date: date, Contributions: userStats.DailyContributions[date]}
		}
		smoothSeries(series, smoothingWindow)
		trend[ranked.Username] = series
	}
	return trend
}

// smoothSeries fills the Smoothed field of each point with a centered
// rolling mean. Near the edges the window is clipped to the available
// points rather than left empty.
func smoothSeries(series []domain.TrendPoint, window int) {
	if window < 1 {
		window = 1
	}
	half := window / 2
	for i := range series {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(series) {
			hi = len(series)
		}
		values := make([]float64, 0, hi-lo)
		for _, point := range series[lo:hi] {
			values = append(values, float64(point.Contributions))
		}
		if mean, err := stats.Mean(values); err == nil {
			series[i].Smoothed, _ = stats.Round(mean, 2)
		}
	}
}
