package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLocalLimiterBurstThenReject(t *testing.T) {
	l := NewLocalLimiter()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "a", 3, time.Hour)
		if err != nil || !ok {
			t.Fatalf("request %d rejected: %v", i, err)
		}
	}
	if ok, _ := l.Allow(ctx, "a", 3, time.Hour); ok {
		t.Fatalf("fourth request within window allowed")
	}
	if ok, _ := l.Allow(ctx, "b", 3, time.Hour); !ok {
		t.Fatalf("keys are not isolated")
	}
}

func TestLocalLimiterDisabled(t *testing.T) {
	l := NewLocalLimiter()
	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow(context.Background(), "k", 0, time.Second); !ok {
			t.Fatalf("zero limit should not reject")
		}
	}
}
