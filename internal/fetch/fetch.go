package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvoronova/skillscan/internal/model"
)

// Runner owns the full fetch stage for a run: for each configured query it
// pages through the upstream API until the page limit or the first empty page,
// persisting each page to the store and recording gaps for pages that failed
// after all retries.
type Runner struct {
	fetcher   model.PageFetcher
	store     model.PageStore
	pageLimit int
	logger    *slog.Logger
}

// NewRunner creates a fetch runner wired with its dependencies. The fetcher is
// expected to already be wrapped with retry and rate-limit decorators.
func NewRunner(fetcher model.PageFetcher, store model.PageStore, pageLimit int, logger *slog.Logger) *Runner {
	return &Runner{
		fetcher:   fetcher,
		store:     store,
		pageLimit: pageLimit,
		logger:    logger,
	}
}

// FetchAll runs the fetch stage for all queries and returns the raw records.
// A page that fails after all retries is skipped and recorded in stats; the
// run continues with the next page. Only context cancellation aborts the run.
func (r *Runner) FetchAll(ctx context.Context, queries []model.Query, stats *model.RunStats) ([]model.RawPosting, error) {
	var all []model.RawPosting

	for _, q := range queries {
		n, err := r.fetchQuery(ctx, q, stats, &all)
		if err != nil {
			return nil, err
		}
		r.logger.Info("fetched query",
			"query", q.Role,
			"country", q.Country,
			"records", n,
		)
	}

	stats.RawRecords = len(all)
	return all, nil
}

func (r *Runner) fetchQuery(ctx context.Context, q model.Query, stats *model.RunStats, all *[]model.RawPosting) (int, error) {
	count := 0
	for page := 1; page <= r.pageLimit; page++ {
		if ctx.Err() != nil {
			return count, fmt.Errorf("fetch %q/%s: %w", q.Role, q.Country, ctx.Err())
		}

		records, err := r.fetcher.FetchPage(ctx, q, page)
		if err != nil {
			if ctx.Err() != nil {
				return count, fmt.Errorf("fetch %q/%s page %d: %w", q.Role, q.Country, page, ctx.Err())
			}
			// Permanent failure for this page: record the gap and move on.
			stats.RecordGap(q, page, err)
			r.logger.Error("page failed after retries, skipping",
				"query", q.Role,
				"country", q.Country,
				"page", page,
				"error", err,
			)
			continue
		}

		stats.PagesFetched++

		if len(records) == 0 {
			// Upstream is exhausted for this query.
			r.logger.Debug("empty page, stopping pagination",
				"query", q.Role,
				"country", q.Country,
				"page", page,
			)
			return count, nil
		}

		if err := r.store.SavePage(q, page, records); err != nil {
			return count, fmt.Errorf("fetch %q/%s page %d: %w", q.Role, q.Country, page, err)
		}

		*all = append(*all, records...)
		count += len(records)
	}
	return count, nil
}
