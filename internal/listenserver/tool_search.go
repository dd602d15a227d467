package listenserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) registerVideoSearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_search",
		Description: "Search YouTube for videos with subtitles/CC to practise listening with. Returns id, title, channel, length and URL; pass a URL to player_load or transcript_fetch.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.videoSearch)
}

func (t *tools) videoSearch(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoSearchInput) (*mcp.CallToolResult, *engine.VideoSearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, nil, errors.New("query is required")
	}
	videos, err := t.Search.SearchVideos(ctx, input.Query, input.Limit)
	if err != nil {
		slog.Warn("video_search failed", slog.String("query", input.Query), slog.Any("error", err))
		if errors.Is(err, sources.ErrNetwork) {
			return nil, nil, errors.New("network error while searching YouTube, check the connection and retry")
		}
		return nil, nil, err
	}
	return nil, &engine.VideoSearchOutput{Query: input.Query, Videos: videos}, nil
}
