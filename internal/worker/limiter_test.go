package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowsWithinBudget(t *testing.T) {
	limiter := NewLimiter(100, 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLimiter_SeparateBudgetsPerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// One request per host fits in each burst without waiting
	start := time.Now()
	for _, u := range []string{
		"https://a.example.com/x",
		"https://b.example.com/x",
		"https://c.example.com/x",
	} {
		if err := limiter.Wait(ctx, u); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cross-host requests should not block, took %v", elapsed)
	}
}

func TestLimiter_UnparseableURLPassesThrough(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if err := limiter.Wait(context.Background(), "::not a url"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
