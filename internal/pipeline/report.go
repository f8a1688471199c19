package pipeline

import "github.com/theworldofraheem/InternScope/internal/posting"

// Outcome classifies what happened to one posting during a cycle.
type Outcome string

const (
	// OutcomeNotified means the posting crossed the threshold and the
	// alert was delivered.
	OutcomeNotified Outcome = "notified"
	// OutcomeBelowThreshold means the posting scored under the threshold.
	OutcomeBelowThreshold Outcome = "below_threshold"
	// OutcomeAlreadySeen means the posting id was evaluated in a prior
	// cycle and was skipped.
	OutcomeAlreadySeen Outcome = "already_seen"
	// OutcomeScoreFailed means the scoring call failed; the posting is
	// still marked seen so it is never retried.
	OutcomeScoreFailed Outcome = "score_failed"
	// OutcomeDispatchFailed means the alert send failed; the posting is
	// still marked seen (at-most-once delivery).
	OutcomeDispatchFailed Outcome = "dispatch_failed"
)

// ItemResult is the explicit per-posting result of a cycle, replacing
// silent per-item error swallowing.
type ItemResult struct {
	Posting *posting.Posting
	Score   float64
	Outcome Outcome
	Err     error
}

// Report summarizes one pipeline cycle.
type Report struct {
	Gathered  int
	New       int
	Notified  int
	Skipped   int
	Failed    int
	SeenAfter int
	Items     []ItemResult
}

func (r *Report) add(item ItemResult) {
	r.Items = append(r.Items, item)

	switch item.Outcome {
	case OutcomeNotified:
		r.Notified++
	case OutcomeAlreadySeen, OutcomeBelowThreshold:
		r.Skipped++
	case OutcomeScoreFailed, OutcomeDispatchFailed:
		r.Failed++
	}
}
