package usecase

import (
	"log"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/contrib-insights/internal/domain"
)

// Analyzer folds fetched contribution records into per-user statistics
// and one aggregate accumulator.
type Analyzer struct {
	logger *log.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(logger *log.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze performs the aggregation pass. It iterates the batch in a
// single goroutine; the accumulator is never mutated concurrently.
// Active users are counted by calendar total, not category totals.
func (a *Analyzer) Analyze(batch map[string]*domain.Contributions) *domain.Analysis {
	a.logger.Println("Analyzing batch contribution data...")

	aggregate := &domain.AggregateStats{
		TotalUsers:       len(batch),
		DailyAggregate:   make(map[string]int),
		MonthlyAggregate: make(map[string]int),
		TopContributors:  []domain.RankedUser{},
	}
	usersStats := make(map[string]*domain.UserStats, len(batch))

	for login, contribs := range batch {
		userStats := AnalyzeUser(contribs)
		usersStats[login] = userStats

		for date, count := range contribs.Daily {
			aggregate.DailyAggregate[date] += count
			if len(date) >= 7 {
				aggregate.MonthlyAggregate[date[:7]] += count
			}
		}

		aggregate.TotalContributions += userStats.TotalContributions
		aggregate.TotalCommits += userStats.TotalCommits
		aggregate.TotalIssues += userStats.TotalIssues
		aggregate.TotalPRs += userStats.TotalPRs
		aggregate.TotalReviews += userStats.TotalReviews
		if userStats.TotalContributions > 0 {
			aggregate.ActiveUsers++
		}
	}

	aggregate.TopContributors = rankUsers(usersStats)
	addAggregateInsights(aggregate)

	a.logger.Println("Analysis complete.")
	return &domain.Analysis{
		AggregateStats: aggregate,
		UsersStats:     usersStats,
		AnalysisDate:   time.Now().Format(time.RFC3339),
	}
}

// AnalyzeUser derives the statistics record for a single user.
func AnalyzeUser(contribs *domain.Contributions) *domain.UserStats {
	userStats := &domain.UserStats{
		Username:           contribs.Login,
		Name:               contribs.Name,
		TotalContributions: contribs.TotalContributions,
		TotalCommits:       contribs.TotalCommits,
		TotalIssues:        contribs.TotalIssues,
		TotalPRs:           contribs.TotalPRs,
		TotalReviews:       contribs.TotalReviews,
		MonthlyBreakdown:   make(map[string]int),
		DailyContributions: make(map[string]int, len(contribs.Daily)),
	}
	for date, count := range contribs.Daily {
		userStats.DailyContributions[date] = count
		if len(date) >= 7 {
			userStats.MonthlyBreakdown[date[:7]] += count
		}
		if count > 0 {
			userStats.ActiveDays++
		}
		// Earliest date wins a tie; zero-count days never become the peak.
		if count > userStats.MaxContributionsDay.Count ||
			(count > 0 && count == userStats.MaxContributionsDay.Count && date < userStats.MaxContributionsDay.Date) {
			userStats.MaxContributionsDay = domain.DayCount{Date: date, Count: count}
		}
	}
	if len(contribs.Daily) > 0 {
		avg := float64(userStats.TotalContributions) / float64(len(contribs.Daily))
		userStats.AverageDaily, _ = stats.Round(avg, 2)
	}
	return userStats
}

// rankUsers produces the descending ranking by calendar total. Ties are
// broken by login ascending to keep the ranking deterministic.
func rankUsers(usersStats map[string]*domain.UserStats) []domain.RankedUser {
	ranked := make([]domain.RankedUser, 0, len(usersStats))
	for _, userStats := range usersStats {
		ranked = append(ranked, domain.RankedUser{
			Username:      userStats.Username,
			Name:          userStats.Name,
			Contributions: userStats.TotalContributions,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Contributions != ranked[j].Contributions {
			return ranked[i].Contributions > ranked[j].Contributions
		}
		return ranked[i].Username < ranked[j].Username
	})
	return ranked
}

// addAggregateInsights fills the derived fields of the accumulator:
// peak day and month, and the mean/median of the daily totals.
func addAggregateInsights(aggregate *domain.AggregateStats) {
	if len(aggregate.DailyAggregate) == 0 {
		return
	}
	daily := make([]float64, 0, len(aggregate.DailyAggregate))
	for date, total := range aggregate.DailyAggregate {
		daily = append(daily, float64(total))
		if better(aggregate.MostActiveDay, date, total) {
			aggregate.MostActiveDay = &domain.DayCount{Date: date, Count: total}
		}
	}
	for month, total := range aggregate.MonthlyAggregate {
		if better(aggregate.MostActiveMonth, month, total) {
			aggregate.MostActiveMonth = &domain.DayCount{Date: month, Count: total}
		}
	}
	if mean, err := stats.Mean(daily); err == nil {
		aggregate.AverageDaily, _ = stats.Round(mean, 2)
	}
	if median, err := stats.Median(daily); err == nil {
		aggregate.MedianDaily, _ = stats.Round(median, 2)
	}
}

// better reports whether (key, total) should replace the current peak.
// Map iteration order is random, so ties prefer the earlier key.
func better(current *domain.DayCount, key string, total int) bool {
	if current == nil {
		return true
	}
	if total != current.Count {
		return total > current.Count
	}
	return key < current.Date
}
