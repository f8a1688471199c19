// Package pipeline runs one ingestion cycle: gather postings, skip the
// already seen, score the rest against the candidate profile, alert on the
// ones that cross the threshold, and persist the grown seen set.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	applogger "github.com/theworldofraheem/InternScope/internal/logger"
	"github.com/theworldofraheem/InternScope/internal/match"
	"github.com/theworldofraheem/InternScope/internal/notify"
	"github.com/theworldofraheem/InternScope/internal/posting"
	"github.com/theworldofraheem/InternScope/internal/profile"
	"github.com/theworldofraheem/InternScope/internal/seen"
	"github.com/theworldofraheem/InternScope/internal/source"
)

// Pipeline wires the per-cycle collaborators together.
type Pipeline struct {
	aggregator *source.Aggregator
	seenStore  seen.Store
	profiles   *profile.Store
	provider   profile.Provider
	engine     *match.Engine
	sink       notify.Sink
	threshold  float64
	logger     *zap.Logger
}

// Config collects the pipeline's dependencies.
type Config struct {
	Aggregator     *source.Aggregator
	SeenStore      seen.Store
	ProfileStore   *profile.Store
	Provider       profile.Provider
	Engine         *match.Engine
	Sink           notify.Sink
	MatchThreshold float64
}

func New(cfg Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg.Aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	if cfg.SeenStore == nil {
		return nil, fmt.Errorf("seen store is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("match engine is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("notification sink is required")
	}
	if cfg.ProfileStore == nil {
		cfg.ProfileStore = profile.NewStore(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		aggregator: cfg.Aggregator,
		seenStore:  cfg.SeenStore,
		profiles:   cfg.ProfileStore,
		provider:   cfg.Provider,
		engine:     cfg.Engine,
		sink:       cfg.Sink,
		threshold:  cfg.MatchThreshold,
		logger:     logger,
	}, nil
}

// RunCycle executes one complete cycle. Item-local failures (one source
// down, one scoring call failing, one alert bouncing) stay local to the
// item; RunCycle itself fails only when the final seen-set save does.
//
// Every posting encountered this cycle is marked seen, whether or not it
// was notified. A below-threshold score or a transient scoring failure
// permanently retires the posting: evaluation is at most once per id.
func (p *Pipeline) RunCycle(ctx context.Context) (*Report, error) {
	before, err := p.seenStore.Load(ctx)
	if err != nil {
		// Stores degrade internally; an error here is unexpected but
		// recoverable the same way: start from nothing seen.
		p.logger.Warn("seen set load failed, treating as empty", zap.Error(err))
		before = seen.NewSet()
	}

	// One snapshot per cycle: profile updates land next cycle.
	snap := p.snapshotProfile(ctx)

	batch := p.aggregator.Gather(ctx)

	report := &Report{Gathered: batch.Len()}
	encountered := seen.NewSet()

	for _, item := range batch.Items {
		encountered.Add(item.ID)

		// Dedup is against history only. A same-batch duplicate (one
		// listing mirrored by two sources) is scored independently and
		// re-marked seen, which is idempotent.
		if before.Has(item.ID) {
			report.add(ItemResult{Posting: item, Outcome: OutcomeAlreadySeen})
			continue
		}

		report.New++
		report.add(p.evaluate(ctx, snap, item))
	}

	after := before.Union(encountered)
	report.SeenAfter = after.Len()

	if err := p.seenStore.Save(ctx, after); err != nil {
		// Persistence failed for this cycle; the next cycle re-evaluates
		// from the stored state, which can only over-notify.
		return report, fmt.Errorf("save seen set: %w", err)
	}

	p.logger.Info("cycle complete",
		zap.Int("gathered", report.Gathered),
		zap.Int("new", report.New),
		zap.Int("notified", report.Notified),
		zap.Int("failed", report.Failed),
		zap.Int("seen_total", report.SeenAfter),
	)

	return report, nil
}

func (p *Pipeline) snapshotProfile(ctx context.Context) *profile.Snapshot {
	if p.provider != nil {
		return profile.Refresh(ctx, p.profiles, p.provider, p.logger)
	}
	return p.profiles.Current()
}

// evaluate scores one new posting and dispatches its alert when warranted.
func (p *Pipeline) evaluate(ctx context.Context, snap *profile.Snapshot, item *posting.Posting) ItemResult {
	p.logger.Debug("scoring posting",
		zap.String("posting_id", item.ID),
		zap.String("text", applogger.TruncateForLog(item.Text(), 120)),
	)

	score, err := p.engine.HybridScore(ctx, snap.Text, item.Text(), snap.Skills)
	if err != nil {
		p.logger.Warn("scoring failed, posting retired without alert",
			zap.String("posting_id", item.ID),
			zap.Error(err),
		)
		return ItemResult{Posting: item, Outcome: OutcomeScoreFailed, Err: err}
	}

	if score < p.threshold {
		return ItemResult{Posting: item, Score: score, Outcome: OutcomeBelowThreshold}
	}

	if err := p.sink.Send(ctx, notify.NewAlert(item, score)); err != nil {
		p.logger.Warn("alert dispatch failed, posting stays retired",
			zap.String("posting_id", item.ID),
			zap.Float64("score", score),
			zap.Error(err),
		)
		return ItemResult{Posting: item, Score: score, Outcome: OutcomeDispatchFailed, Err: err}
	}

	p.logger.Info("new matching posting",
		zap.String("title", item.Title),
		zap.String("company", item.Company),
		zap.String("source", item.Source),
		zap.Float64("score", score),
	)

	return ItemResult{Posting: item, Score: score, Outcome: OutcomeNotified}
}
