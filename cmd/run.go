package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	applogger "github.com/theworldofraheem/InternScope/internal/logger"
	"github.com/theworldofraheem/InternScope/internal/match"
	"github.com/theworldofraheem/InternScope/internal/match/gemini"
	"github.com/theworldofraheem/InternScope/internal/notify"
	"github.com/theworldofraheem/InternScope/internal/pipeline"
	"github.com/theworldofraheem/InternScope/internal/profile"
	"github.com/theworldofraheem/InternScope/internal/scheduler"
	"github.com/theworldofraheem/InternScope/internal/secrets"
	"github.com/theworldofraheem/InternScope/internal/seen"
	"github.com/theworldofraheem/InternScope/internal/source"
)

const (
	defaultInterval    = 6 * time.Hour
	defaultThreshold   = 70.0
	defaultProfileFile = "profile.txt"
	defaultSeenFile    = "seen_jobs.json"
	defaultRedisKey    = "internscope:seen"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the internscope monitoring loop",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("once", false, "run a single cycle and exit instead of starting the scheduler")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting internscope", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	p, err := buildPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	if once, _ := cmd.Flags().GetBool("once"); once {
		report, err := p.RunCycle(ctx)
		if err != nil {
			logger.Fatal("cycle failed", zap.Error(err))
		}
		logger.Info("single cycle done",
			zap.Int("gathered", report.Gathered),
			zap.Int("new", report.New),
			zap.Int("notified", report.Notified),
		)
		return
	}

	interval := config.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(p, interval, config.CycleDeadline, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()
	sched.Stop()
}

// buildPipeline assembles the full pipeline from the configuration.
func buildPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	sources, err := buildSources(config.Sources, logger)
	if err != nil {
		return nil, err
	}

	var keywords []string
	var timeout time.Duration
	if config.Sources != nil {
		keywords = config.Sources.Keywords
		timeout = config.Sources.Timeout
	}

	aggregator := source.NewAggregator(sources, source.NewRelevance(keywords), timeout, logger)

	store, err := buildSeenStore(ctx, config.Seen, logger)
	if err != nil {
		return nil, err
	}

	similarity, err := buildSimilarity(ctx, config.Similarity, logger)
	if err != nil {
		return nil, err
	}

	sink, err := buildSink(config.Discord, logger)
	if err != nil {
		return nil, err
	}

	profileFile := config.ProfileFile
	if profileFile == "" {
		profileFile = defaultProfileFile
	}

	threshold, err := resolveThreshold(viper.IsSet("match-threshold"), config.MatchThreshold)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pipeline.Config{
		Aggregator:     aggregator,
		SeenStore:      store,
		ProfileStore:   profile.NewStore(nil),
		Provider:       profile.NewFileProvider(profileFile, logger),
		Engine:         match.NewEngine(similarity, config.SeniorMarkers, logger),
		Sink:           sink,
		MatchThreshold: threshold,
	}, logger)
}

// resolveThreshold keeps an explicit zero threshold, which is a valid
// notify-everything setting, and falls back to the default only when the
// key is absent from the configuration.
func resolveThreshold(set bool, value float64) (float64, error) {
	if !set {
		return defaultThreshold, nil
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("match-threshold must be within [0,100], got %v", value)
	}
	return value, nil
}

func buildSources(cfg *SourcesConfig, logger *zap.Logger) ([]source.Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("at least one source must be configured under the sources section")
	}

	var sources []source.Source
	if len(cfg.Lever) > 0 {
		sources = append(sources, source.NewLever(cfg.Lever, logger))
	}
	if len(cfg.Greenhouse) > 0 {
		sources = append(sources, source.NewGreenhouse(cfg.Greenhouse, logger))
	}
	if len(cfg.RSSQueries) > 0 {
		sources = append(sources, source.NewRSS(cfg.RSSQueries, logger))
	}
	if cfg.WeWorkRemotely {
		sources = append(sources, source.NewWeWorkRemotely(logger))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source must be configured under the sources section")
	}

	return sources, nil
}

func buildSeenStore(ctx context.Context, cfg *SeenConfig, logger *zap.Logger) (seen.Store, error) {
	backend := "file"
	if cfg != nil && cfg.Backend != "" {
		backend = strings.TrimSpace(strings.ToLower(cfg.Backend))
	}

	switch backend {
	case "file":
		path := defaultSeenFile
		if cfg != nil && cfg.File != "" {
			path = cfg.File
		}
		return seen.NewFileStore(path, logger), nil
	case "redis":
		if cfg == nil || cfg.RedisURL == "" {
			return nil, fmt.Errorf("seen.redis-url is required for the redis backend")
		}
		key := cfg.RedisKey
		if key == "" {
			key = defaultRedisKey
		}
		return seen.NewRedisStore(ctx, cfg.RedisURL, key, logger)
	default:
		return nil, fmt.Errorf("unsupported seen backend: %s", backend)
	}
}

func buildSimilarity(ctx context.Context, cfg *SimilarityConfig, logger *zap.Logger) (match.Similarity, error) {
	provider := "lexical"
	if cfg != nil && cfg.Provider != "" {
		provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch provider {
	case "lexical":
		return match.NewLexical(), nil
	case "gemini":
		if cfg == nil || cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini configuration is required when the gemini provider is selected")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set similarity.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		client, err := gemini.NewClient(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		simLogger := applogger.WithSimilarityFields(logger, provider, cfg.Gemini.Model)
		return gemini.NewSimilarity(client, simLogger), nil
	default:
		return nil, fmt.Errorf("unsupported similarity provider: %s", provider)
	}
}

func buildSink(cfg *DiscordConfig, logger *zap.Logger) (notify.Sink, error) {
	if cfg == nil || (cfg.WebhookURL == "" && cfg.WebhookURLFile == "") {
		logger.Warn("no discord webhook configured, alerts go to the log only")
		return notify.NewLogSink(logger), nil
	}

	webhookURL, err := secrets.Load(secrets.Source{
		Name:  "discord webhook url",
		Value: cfg.WebhookURL,
		File:  cfg.WebhookURLFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set discord.webhook-url, discord.webhook-url-file or DISCORD_WEBHOOK_URL_FILE)", err)
	}

	return notify.NewDiscord(webhookURL, logger), nil
}
