package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// FetchTranscript runs the acquisition chain for one video:
// watch page → API key → /player catalog → English track → srv3 → Transcript.
// The run aborts at the first failing stage and ctx is checked between stages.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (*engine.Transcript, error) {
	engine.IncrTranscriptRequests()
	start := time.Now()

	var tr *engine.Transcript
	err := engine.TrackOperation(ctx, "youtube_transcript", func(ctx context.Context) error {
		var err error
		tr, err = c.fetchTranscript(ctx, videoID)
		return err
	})
	if err != nil {
		engine.IncrTranscriptErrors()
		slog.Warn("youtube: transcript failed",
			slog.String("id", videoID), slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}
	slog.Info("youtube: transcript loaded",
		slog.String("id", videoID), slog.String("lang", tr.LanguageCode()),
		slog.Int("segments", tr.Len()), slog.Duration("elapsed", time.Since(start)))
	return tr, nil
}

func (c *Client) fetchTranscript(ctx context.Context, videoID string) (*engine.Transcript, error) {
	if err := checkpoint(ctx, stageBootstrap); err != nil {
		return nil, err
	}
	apiKey, err := c.FetchAPIKey(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := checkpoint(ctx, stageCatalog); err != nil {
		return nil, err
	}
	catalog, err := c.FetchCatalog(ctx, videoID, apiKey)
	if err != nil {
		return nil, err
	}

	track, err := SelectEnglishTrack(catalog)
	if err != nil {
		return nil, err
	}
	slog.Debug("youtube: track selected",
		slog.String("id", videoID), slog.String("lang", track.LanguageCode), slog.String("kind", track.Kind))

	if err := checkpoint(ctx, stageTimedText); err != nil {
		return nil, err
	}
	body, err := c.FetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	segs, err := ParseTimedText(body)
	if err != nil {
		return nil, err
	}
	engine.AddSegmentsParsed(len(segs))

	tr, err := engine.NewTranscript(videoID, track.Name, track.LanguageCode, segs)
	if err != nil {
		return nil, parseError(stageTimedText, ErrEmptyTranscript, err)
	}
	return tr, nil
}

// FetchTranscriptFromURL extracts the video id from rawURL and runs FetchTranscript.
func (c *Client) FetchTranscriptFromURL(ctx context.Context, rawURL string) (*engine.Transcript, error) {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return nil, ErrInvalidURL
	}
	return c.FetchTranscript(ctx, id)
}

