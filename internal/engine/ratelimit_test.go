package engine

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/time/rate"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name      string
		rps       float64
		burst     int
		wantLimit rate.Limit
		wantBurst int
	}{
		{"disabled", 0, 0, rate.Inf, 1},
		{"negative disabled", -3, 5, rate.Inf, 1},
		{"burst floor", 2, 0, 2, 1},
		{"explicit", 0.5, 3, 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(tt.rps, tt.burst)
			if l.Limit() != tt.wantLimit {
				t.Errorf("Limit() = %v, want %v", l.Limit(), tt.wantLimit)
			}
			if l.Burst() != tt.wantBurst {
				t.Errorf("Burst() = %d, want %d", l.Burst(), tt.wantBurst)
			}
		})
	}
}

func TestWaitYouTubeCanceled(t *testing.T) {
	Init(Config{YouTubeRate: 0.001, YouTubeBurst: 1})
	t.Cleanup(func() { Init(Config{}) })

	// First token is free.
	if err := WaitYouTube(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitYouTube(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitYouTube() = %v, want context.Canceled", err)
	}
}
