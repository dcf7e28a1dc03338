// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/contrib-insights/internal/domain"
	"github.com/naka-gawa/contrib-insights/internal/gateway"
)

// ErrEmptyBatch is returned when every requested user failed to fetch.
var ErrEmptyBatch = errors.New("no contribution data was retrieved")

// defaultPacing is the delay held after each fetch before the worker
// slot is released, bounding the aggregate request rate.
const defaultPacing = 200 * time.Millisecond

// BatchResult is the outcome of one batch fetch run: the records of the
// users that succeeded and the logins of those that did not.
type BatchResult struct {
	Contributions map[string]*domain.Contributions
	Failed        []string
}

// BatchFetcher fetches contribution data for many users under a bounded
// number of concurrent requests.
type BatchFetcher struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	pacing  time.Duration
}

// NewBatchFetcher creates a new BatchFetcher instance.
func NewBatchFetcher(fetcher gateway.Fetcher, logger *log.Logger) *BatchFetcher {
	return &BatchFetcher{
		fetcher: fetcher,
		logger:  logger,
		pacing:  defaultPacing,
	}
}

type fetchOutcome struct {
	login    string
	contribs *domain.Contributions
	err      error
}

// FetchAll dispatches one FetchContributions call per login with at
// most workers in flight, and merges the outcomes into a BatchResult.
// A single user's failure never aborts the batch; ErrEmptyBatch is
// returned only when every login failed. Workers hand their outcome to
// the collecting loop over a channel, so the result maps are only ever
// written from this goroutine.
func (b *BatchFetcher) FetchAll(ctx context.Context, logins []string, from, to time.Time, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	b.logger.Printf("Fetching contributions for %d users...\n", len(logins))

	outcomes := make(chan fetchOutcome)
	eg := &errgroup.Group{}
	eg.SetLimit(workers)
	go func() {
		for _, login := range logins {
			login := login
			eg.Go(func() error {
				contribs, err := b.fetcher.FetchContributions(ctx, login, from, to)
				outcomes <- fetchOutcome{login: login, contribs: contribs, err: err}
				// Hold the slot briefly so the next dispatch is paced.
				if b.pacing > 0 {
					time.Sleep(b.pacing)
				}
				return nil
			})
		}
		// Workers report per-user outcomes over the channel and never
		// return errors, so there is nothing to collect here.
		_ = eg.Wait()
		close(outcomes)
	}()

	result := &BatchResult{Contributions: make(map[string]*domain.Contributions)}
	for outcome := range outcomes {
		if outcome.err != nil {
			b.logger.Printf("Error processing %s: %v\n", outcome.login, outcome.err)
			result.Failed = append(result.Failed, outcome.login)
			continue
		}
		result.Contributions[outcome.login] = outcome.contribs
	}
	// Completion order is nondeterministic, so the failure list is
	// sorted to keep reporting stable across runs.
	sort.Strings(result.Failed)

	b.logger.Printf("Successfully fetched: %d users\n", len(result.Contributions))
	if len(result.Failed) > 0 {
		b.logger.Printf("Failed to fetch: %v\n", result.Failed)
	}
	if len(logins) > 0 && len(result.Contributions) == 0 {
		return result, ErrEmptyBatch
	}
	return result, nil
}
