package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/theworldofraheem/InternScope/internal/utils"
)

// Embed colors per severity tier.
const (
	colorStrong   = 0x2ecc71
	colorModerate = 0xf1c40f
	colorWeak     = 0xe74c3c
)

// Discord sends alerts to a Discord channel through an incoming webhook.
type Discord struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

func NewDiscord(webhookURL string, logger *zap.Logger) *Discord {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title  string         `json:"title"`
	URL    string         `json:"url"`
	Color  int            `json:"color"`
	Fields []discordField `json:"fields"`
	Footer discordFooter  `json:"footer"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// Send posts one embed per alert. Discord answers 204 on success.
func (d *Discord) Send(ctx context.Context, alert Alert) error {
	payload := discordPayload{
		Embeds: []discordEmbed{{
			Title: alert.Title,
			URL:   alert.URL,
			Color: colorFor(alert.Tier),
			Fields: []discordField{
				{Name: "Company", Value: orNA(alert.Company), Inline: true},
				{Name: "Location", Value: orNA(alert.Location), Inline: true},
				{Name: "Source", Value: orNA(alert.Source), Inline: true},
				{Name: "Match Score", Value: fmt.Sprintf("**%.2f%%** (%s)", alert.Score, alert.Tier), Inline: false},
			},
			Footer: discordFooter{Text: "InternScope job monitor"},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	// One retry after a rate limit response, honoring Retry-After.
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("post webhook: %w", err)
		}
		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			delay := retryDelay(retryAfter)
			d.logger.Warn("webhook rate limited, retrying once",
				zap.Duration("delay", delay),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return fmt.Errorf("waiting out rate limit: %w", err)
			}
			continue
		}

		if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
			return fmt.Errorf("webhook rejected alert: %s", resp.Status)
		}

		d.logger.Debug("alert delivered",
			zap.String("title", alert.Title),
			zap.Float64("score", alert.Score),
		)

		return nil
	}

	return fmt.Errorf("webhook still rate limited after retry")
}

func retryDelay(retryAfter string) time.Duration {
	seconds, err := strconv.ParseFloat(retryAfter, 64)
	if err != nil || seconds <= 0 {
		return time.Second
	}
	return time.Duration(seconds * float64(time.Second))
}

func colorFor(tier string) int {
	switch tier {
	case TierStrong:
		return colorStrong
	case TierModerate:
		return colorModerate
	default:
		return colorWeak
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
