package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes alerts to the log instead of an external channel. Used in
// dry-run mode and when no webhook is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Send(_ context.Context, alert Alert) error {
	l.logger.Info("job match",
		zap.String("title", alert.Title),
		zap.String("company", alert.Company),
		zap.String("location", alert.Location),
		zap.String("source", alert.Source),
		zap.String("url", alert.URL),
		zap.Float64("score", alert.Score),
		zap.String("tier", alert.Tier),
	)
	return nil
}
