// Package match computes the relevance score of a posting against the
// candidate profile using a hybrid of semantic similarity, exact skill
// overlap, and a seniority penalty.
package match

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
)

// Similarity scores how close two text blobs are, in [0,100]. Providers are
// deterministic for fixed inputs: repeated cycles see identical scores.
type Similarity interface {
	Score(ctx context.Context, a, b string) (float64, error)
}

const (
	skillBonusPerHit = 5.0
	skillBonusCap    = 20.0
	seniorityPenalty = 25.0
)

// defaultSeniorMarkers flag postings aimed at senior roles. Pure text
// similarity over-ranks these: a strong skill overlap with a "Senior
// Backend Engineer" posting says nothing about the candidate fitting it.
var defaultSeniorMarkers = []string{"senior", "lead", "manager", "director", "principal"}

// Engine combines a similarity provider with the skill and seniority
// heuristics.
type Engine struct {
	similarity    Similarity
	seniorMarkers []string
	logger        *zap.Logger
}

// NewEngine builds an engine. A nil seniorMarkers keeps the default marker
// list; an explicitly empty one disables the penalty.
func NewEngine(similarity Similarity, seniorMarkers []string, logger *zap.Logger) *Engine {
	if seniorMarkers == nil {
		seniorMarkers = defaultSeniorMarkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		similarity:    similarity,
		seniorMarkers: seniorMarkers,
		logger:        logger,
	}
}

// Score returns the bare similarity between the profile and posting text,
// in [0,100]. Either side being empty yields 0 without a provider call.
func (e *Engine) Score(ctx context.Context, profileText, postingText string) (float64, error) {
	if strings.TrimSpace(profileText) == "" || strings.TrimSpace(postingText) == "" {
		return 0, nil
	}

	base, err := e.similarity.Score(ctx, profileText, postingText)
	if err != nil {
		return 0, err
	}

	return round2(clamp(base, 0, 100)), nil
}

// HybridScore applies the full model: base similarity, plus up to 20 points
// of skill-overlap bonus (5 per matched skill), minus 25 when the posting
// targets a senior role. The result is clamped to [0,100] and rounded to
// two decimals.
func (e *Engine) HybridScore(ctx context.Context, profileText, postingText string, profileSkills []string) (float64, error) {
	if strings.TrimSpace(profileText) == "" || strings.TrimSpace(postingText) == "" {
		return 0, nil
	}

	base, err := e.similarity.Score(ctx, profileText, postingText)
	if err != nil {
		return 0, err
	}

	score := clamp(base, 0, 100) + e.skillBonus(postingText, profileSkills)

	if e.isSeniorPosting(postingText) {
		score -= seniorityPenalty
	}

	return round2(clamp(score, 0, 100)), nil
}

func (e *Engine) skillBonus(postingText string, skills []string) float64 {
	lower := strings.ToLower(postingText)

	overlap := 0
	for _, skill := range skills {
		norm := strings.ToLower(strings.TrimSpace(skill))
		if norm == "" {
			continue
		}
		if strings.Contains(lower, norm) {
			overlap++
		}
	}

	return math.Min(float64(overlap)*skillBonusPerHit, skillBonusCap)
}

func (e *Engine) isSeniorPosting(postingText string) bool {
	lower := strings.ToLower(postingText)
	for _, marker := range e.seniorMarkers {
		if marker == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
