package listenserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/anatolykoptev/go_listen/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) registerTranscriptFetch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_fetch",
		Description: "Fetch the English caption transcript of a YouTube video. Returns timed segments (start, duration, text) sorted by start time. Manual English tracks are preferred when listed first; auto-generated captions are used otherwise. Nothing is cached.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.transcriptFetch)
}

func (t *tools) transcriptFetch(ctx context.Context, _ *mcp.CallToolRequest, input engine.TranscriptFetchInput) (*mcp.CallToolResult, *engine.TranscriptOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, nil, errors.New("url is required")
	}
	tr, err := t.Transcripts.FetchTranscriptFromURL(ctx, input.URL)
	if err != nil {
		slog.Warn("transcript_fetch failed", slog.String("url", input.URL), slog.Any("error", err))
		return nil, nil, errors.New(sources.UserMessage(err))
	}

	out := &engine.TranscriptOutput{
		VideoID:      tr.VideoID(),
		LanguageName: tr.LanguageName(),
		LanguageCode: tr.LanguageCode(),
		Duration:     tr.Duration(),
		Segments:     tr.Segments(),
	}
	if strings.EqualFold(input.Format, "text") {
		out.Text = toolutil.RenderTranscript(out.Segments, -1)
	}
	return nil, out, nil
}
