package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	BootstrapRequests  atomic.Int64
	CatalogRequests    atomic.Int64
	TimedTextRequests  atomic.Int64
	SearchRequests     atomic.Int64
	SegmentsParsed     atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
}

// slowOperation is the threshold above which TrackOperation logs a warning.
const slowOperation = 5 * time.Second

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"bootstrap_requests":  metrics.BootstrapRequests.Load(),
		"catalog_requests":    metrics.CatalogRequests.Load(),
		"timedtext_requests":  metrics.TimedTextRequests.Load(),
		"search_requests":     metrics.SearchRequests.Load(),
		"segments_parsed":     metrics.SegmentsParsed.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "transcript_errors",
		"bootstrap_requests", "catalog_requests", "timedtext_requests",
		"search_requests", "segments_parsed",
		"llm_calls", "llm_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ sub-package.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors() { metrics.TranscriptErrors.Add(1) }
func IncrBootstrapRequests() { metrics.BootstrapRequests.Add(1) }
func IncrCatalogRequests() { metrics.CatalogRequests.Add(1) }
func IncrTimedTextRequests() { metrics.TimedTextRequests.Add(1) }
func IncrSearchRequests() { metrics.SearchRequests.Add(1) }
func AddSegmentsParsed(n int) { metrics.SegmentsParsed.Add(int64(n)) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > slowOperation {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
