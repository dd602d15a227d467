package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "meaning", "meaning"},
		{"fenced", "```\nmeaning\n```", "meaning"},
		{"text fence", "```text\nmeaning\n```", "meaning"},
		{"whitespace", "  meaning  ", "meaning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.raw); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExplainSentenceDisabled(t *testing.T) {
	Init(Config{})
	_, err := ExplainSentence(context.Background(), "Hello there.")
	if !errors.Is(err, ErrLLMDisabled) {
		t.Errorf("ExplainSentence() error = %v, want ErrLLMDisabled", err)
	}
}

func TestExplainSentenceEmpty(t *testing.T) {
	Init(Config{})
	if _, err := ExplainSentence(context.Background(), "   "); err == nil {
		t.Error("expected error for blank sentence")
	}
}

func TestExplainSentenceCached(t *testing.T) {
	// The client points nowhere: a cache hit must not reach it.
	Init(Config{LLMModel: "test-model", LLMClient: llm.NewClient("http://127.0.0.1:1", "key", "test-model")})
	InitCache("", time.Minute, 10, time.Minute)
	CacheSet(context.Background(), CacheKey("explain", "test-model", "Break a leg."), "Good luck.")

	got, err := ExplainSentence(context.Background(), "  Break   a leg. ")
	if err != nil {
		t.Fatalf("ExplainSentence() error = %v", err)
	}
	if got != "Good luck." {
		t.Errorf("ExplainSentence() = %q, want cached %q", got, "Good luck.")
	}
}
