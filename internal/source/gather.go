package source

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/theworldofraheem/InternScope/internal/posting"
)

const defaultSourceTimeout = 30 * time.Second

// Aggregator invokes every source concurrently, filters the results, and
// merges the survivors into one batch of postings.
type Aggregator struct {
	sources   []Source
	relevance *Relevance
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAggregator builds an aggregator. timeout bounds each individual
// source; a source that exceeds it is abandoned without canceling siblings.
func NewAggregator(sources []Source, relevance *Relevance, timeout time.Duration, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = defaultSourceTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		sources:   sources,
		relevance: relevance,
		timeout:   timeout,
		logger:    logger,
	}
}

type fetchResult struct {
	name    string
	records []RawRecord
	err     error
}

// Gather runs all fetchers in parallel and joins them before returning.
// One source's outage never aborts the batch: its failure is logged and it
// contributes zero records. Ordering across sources is not guaranteed.
// Duplicate ids within the batch pass through; dedup against history
// happens downstream per id.
func (a *Aggregator) Gather(ctx context.Context) *posting.Postings {
	results := make(chan fetchResult, len(a.sources))

	var wg sync.WaitGroup
	for _, src := range a.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			records, err := src.Fetch(fetchCtx)
			results <- fetchResult{name: src.Name(), records: records, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	batch := &posting.Postings{}
	for result := range results {
		if result.err != nil {
			a.logger.Warn("source unavailable this cycle",
				zap.String("source", result.name),
				zap.Error(result.err),
			)
			continue
		}

		admitted := 0
		dropped := 0
		for _, record := range result.records {
			if !a.relevance.Admit(record) {
				continue
			}

			id, err := posting.CanonicalID(record.Link)
			if err != nil {
				dropped++
				continue
			}

			batch.Append(&posting.Posting{
				ID:          id,
				Title:       record.Title,
				Company:     record.Company,
				Location:    record.Location,
				Description: record.Description,
				Source:      record.Source,
			})
			admitted++
		}

		a.logger.Info("source gathered",
			zap.String("source", result.name),
			zap.Int("fetched", len(result.records)),
			zap.Int("admitted", admitted),
			zap.Int("invalid_links", dropped),
		)
	}

	return batch
}
