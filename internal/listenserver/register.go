// Package listenserver exposes transcript acquisition, player sessions, the
// segment explainer and the reading list as MCP tools.
package listenserver

import (
	"context"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/reading"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TranscriptFetcher acquires a transcript from a video URL. *sources.Client implements it.
type TranscriptFetcher interface {
	FetchTranscriptFromURL(ctx context.Context, rawURL string) (*engine.Transcript, error)
}

// VideoSearcher finds captioned videos. *sources.Client implements it.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, limit int) ([]engine.YouTubeVideo, error)
}

// Deps are the collaborators behind the tools. Nil fields fall back to the
// process-wide defaults.
type Deps struct {
	Manager     *player.Manager
	Transcripts TranscriptFetcher
	Search      VideoSearcher
	Reading     func() (*reading.Store, error)
	Explain     func(ctx context.Context, sentence string) (string, error)
}

type tools struct {
	Deps
}

func newTools(d Deps) *tools {
	if d.Transcripts == nil {
		d.Transcripts = sources.NewClient()
	}
	if d.Search == nil {
		d.Search = sources.NewClient()
	}
	if d.Manager == nil {
		d.Manager = player.NewManager(sources.NewClient())
	}
	if d.Reading == nil {
		d.Reading = reading.Default
	}
	if d.Explain == nil {
		d.Explain = engine.ExplainSentence
	}
	return &tools{Deps: d}
}

// RegisterTools registers every go_listen tool on the given MCP server:
// transcript_fetch, video_search, player_*, segment_explain and reading_*.
// It returns the number of tools registered.
func RegisterTools(server *mcp.Server, d Deps) int {
	t := newTools(d)
	registrations := []func(*mcp.Server){
		t.registerTranscriptFetch,
		t.registerVideoSearch,
		t.registerPlayerLoad,
		t.registerPlayerStatus,
		t.registerPlayerTick,
		t.registerPlayerDuration,
		t.registerPlayerSeek,
		t.registerPlayerCommand,
		t.registerSegmentExplain,
		t.registerReadingAdd,
		t.registerReadingList,
		t.registerReadingSentences,
		t.registerReadingDelete,
	}
	for _, register := range registrations {
		register(server)
	}
	return len(registrations)
}
