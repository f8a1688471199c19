package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/theworldofraheem/InternScope/internal/posting"
)

func TestTierFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score  float64
		expect string
	}{
		{score: 100, expect: TierStrong},
		{score: 85, expect: TierStrong},
		{score: 84.99, expect: TierModerate},
		{score: 70, expect: TierModerate},
		{score: 69.99, expect: TierWeak},
		{score: 0, expect: TierWeak},
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.expect {
			t.Fatalf("TierFor(%v): expected %s, got %s", tt.score, tt.expect, got)
		}
	}
}

func TestNewAlert(t *testing.T) {
	t.Parallel()

	p := &posting.Posting{
		ID:       "https://jobs.lever.co/acme/1",
		Title:    "Backend Intern",
		Company:  "Acme",
		Location: "Remote",
		Source:   "lever",
	}

	alert := NewAlert(p, 87.5)
	if alert.URL != p.ID {
		t.Fatalf("expected alert url %q, got %q", p.ID, alert.URL)
	}
	if alert.Tier != TierStrong {
		t.Fatalf("expected strong tier, got %s", alert.Tier)
	}
}

func TestDiscordSend(t *testing.T) {
	t.Parallel()

	var received discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewDiscord(server.URL, zap.NewNop())

	alert := Alert{
		Title:   "Backend Intern",
		URL:     "https://jobs.lever.co/acme/1",
		Company: "Acme",
		Source:  "lever",
		Score:   91.25,
		Tier:    TierStrong,
	}

	if err := sink.Send(context.Background(), alert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(received.Embeds))
	}
	embed := received.Embeds[0]
	if embed.Title != alert.Title {
		t.Fatalf("unexpected embed title: %q", embed.Title)
	}
	if embed.Color != colorStrong {
		t.Fatalf("expected strong color, got %#x", embed.Color)
	}
	if embed.Fields[1].Value != "N/A" {
		t.Fatalf("expected empty location to render as N/A, got %q", embed.Fields[1].Value)
	}
}

func TestDiscordSendRejectedPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sink := NewDiscord(server.URL, zap.NewNop())

	if err := sink.Send(context.Background(), Alert{Title: "x"}); err == nil {
		t.Fatalf("expected error for rejected payload")
	}
}

func TestDiscordSendRetriesAfterRateLimit(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "0.01")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewDiscord(server.URL, zap.NewNop())

	if err := sink.Send(context.Background(), Alert{Title: "x"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
}

func TestDiscordSendGivesUpWhenStillRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0.01")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sink := NewDiscord(server.URL, zap.NewNop())

	if err := sink.Send(context.Background(), Alert{Title: "x"}); err == nil {
		t.Fatalf("expected error when rate limit persists")
	}
}

func TestDiscordSendUnreachableChannel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	sink := NewDiscord(server.URL, zap.NewNop())

	if err := sink.Send(context.Background(), Alert{Title: "x"}); err == nil {
		t.Fatalf("expected error for unreachable channel")
	}
}
