package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitFor(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately for non-positive duration", func(t *testing.T) {
		t.Parallel()
		if err := WaitFor(context.Background(), 0); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("waits out the duration", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		if err := WaitFor(context.Background(), 20*time.Millisecond); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if time.Since(start) < 20*time.Millisecond {
			t.Fatalf("returned before the duration elapsed")
		}
	})

	t.Run("aborts when context is canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WaitFor(ctx, time.Minute)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
