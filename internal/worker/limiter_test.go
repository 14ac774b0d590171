package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.Burst() != 5 {
		t.Errorf("expected burst 5, got %d", limiter.Burst())
	}

	l2 := NewLimiter(10, -1)
	if l2.Burst() != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.Burst())
	}
}

func TestLimiter_ZeroRateIsUnlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	if limiter != nil {
		t.Fatal("expected nil limiter for rate 0")
	}

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
		if !limiter.Allow() {
			t.Fatal("unlimited limiter refused")
		}
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(20, 1) // one every 50ms
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("expected throttling to take >= 90ms, got %v", elapsed)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 2)

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.Allow() {
		t.Error("expected third immediate call to be refused")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}

	var unlimited *Limiter
	if err := unlimited.Wait(ctx); err == nil {
		t.Error("expected unlimited limiter to report cancelled context")
	}
}
