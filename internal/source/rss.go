package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const indeedRSSURL = "https://www.indeed.com/rss"

// RSS fetches postings from job-board RSS feeds, one query per feed.
type RSS struct {
	queries []string
	parser  *gofeed.Parser
	logger  *zap.Logger
	FeedURL string
}

func NewRSS(queries []string, logger *zap.Logger) *RSS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSS{
		queries: queries,
		parser:  gofeed.NewParser(),
		logger:  logger,
		FeedURL: indeedRSSURL,
	}
}

func (r *RSS) Name() string { return "indeed" }

func (r *RSS) Fetch(ctx context.Context) ([]RawRecord, error) {
	var records []RawRecord
	failures := 0

	for _, query := range r.queries {
		feedRecords, err := r.fetchQuery(ctx, query)
		if err != nil {
			failures++
			r.logger.Warn("rss feed fetch failed",
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		records = append(records, feedRecords...)
	}

	if failures > 0 && failures == len(r.queries) {
		return nil, fmt.Errorf("all %d rss queries failed", failures)
	}

	return records, nil
}

func (r *RSS) fetchQuery(ctx context.Context, query string) ([]RawRecord, error) {
	feedURL := fmt.Sprintf("%s?q=%s", r.FeedURL, url.QueryEscape(query))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	records := make([]RawRecord, 0, len(feed.Items))
	skipped := 0
	for _, item := range feed.Items {
		if item == nil || item.Link == "" || strings.TrimSpace(item.Title) == "" {
			skipped++
			continue
		}
		records = append(records, RawRecord{
			Title:       item.Title,
			Description: item.Description,
			Company:     feedCompany(item),
			Link:        item.Link,
			Extra:       strings.Join(item.Categories, " "),
			Source:      r.Name(),
		})
	}

	if skipped > 0 {
		r.logger.Debug("skipped malformed rss items",
			zap.String("query", query),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}

func feedCompany(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	return "Indeed"
}
