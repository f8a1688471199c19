// Package notify formats and dispatches alerts for postings that cross the
// match threshold.
package notify

import (
	"context"

	"github.com/theworldofraheem/InternScope/internal/posting"
)

// Severity tiers map score ranges to how loudly an alert is presented.
const (
	TierStrong   = "strong"
	TierModerate = "moderate"
	TierWeak     = "weak"
)

// Alert is the outbound payload for one matched posting.
type Alert struct {
	Title    string
	URL      string
	Company  string
	Location string
	Source   string
	Score    float64
	Tier     string
}

// Sink delivers a formatted alert to the configured channel. Exactly one
// outbound message per call; delivery is at most once per posting since a
// failed send is never retried for a posting already marked seen.
type Sink interface {
	Send(ctx context.Context, alert Alert) error
}

// TierFor buckets a score into a severity tier.
func TierFor(score float64) string {
	switch {
	case score >= 85:
		return TierStrong
	case score >= 70:
		return TierModerate
	default:
		return TierWeak
	}
}

// NewAlert builds the alert payload for a scored posting.
func NewAlert(p *posting.Posting, score float64) Alert {
	return Alert{
		Title:    p.Title,
		URL:      p.ID,
		Company:  p.Company,
		Location: p.Location,
		Source:   p.Source,
		Score:    score,
		Tier:     TierFor(score),
	}
}
