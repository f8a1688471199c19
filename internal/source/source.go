// Package source fetches raw posting records from external job boards and
// aggregates the relevant ones into one batch per cycle.
package source

import (
	"context"
	"strings"
)

// RawRecord is a posting as produced by a fetcher, before relevance
// filtering and normalization.
type RawRecord struct {
	Title       string
	Description string
	Company     string
	Location    string
	Link        string
	Extra       string
	Source      string
}

// text is what the relevance filter inspects.
func (r RawRecord) text() string {
	return strings.Join([]string{r.Title, r.Description, r.Extra}, " ")
}

// Source is one external job board. Fetch returns every currently listed
// raw record. Individual malformed items are skipped by the fetcher, never
// surfaced as errors; an error means the source as a whole was unreachable
// or unparsable this cycle.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}
