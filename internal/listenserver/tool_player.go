package listenserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/anatolykoptev/go_listen/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	loadWaitTimeout = 90 * time.Second
	loadPollEvery   = 50 * time.Millisecond
)

func (t *tools) registerPlayerLoad(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_load",
		Description: "Load a YouTube video's English transcript into a player session. Cancels any load already running in that session. Returns immediately with status=loading unless wait=true. Follow with player_tick as the video plays.",
	}, t.playerLoad)
}

func (t *tools) registerPlayerStatus(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_status",
		Description: "Show a player session: load status, playback position, highlighted segment, loop window, and events raised since the last call. Also lists open sessions.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.playerStatus)
}

func (t *tools) registerPlayerTick(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_tick",
		Description: "Report the current playback position in seconds. Updates the highlighted segment; while looping, a position past the loop end raises a seek event back to the loop start.",
	}, t.playerTick)
}

func (t *tools) registerPlayerDuration(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_duration",
		Description: "Report the video's duration in seconds once the media player knows it. Loop windows are clamped to it.",
	}, t.playerDuration)
}

func (t *tools) registerPlayerSeek(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_seek",
		Description: "Report a user seek to the given position in seconds. While looping, the loop window is re-centred on the new position.",
	}, t.playerSeek)
}

func (t *tools) registerPlayerCommand(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "player_command",
		Description: "Send a playback command: toggle_loop (loop 5s either side of the position), rewind / forward (10s, or shift the loop window while looping), clear (cancel loading and reset the session).",
	}, t.playerCommand)
}

func (t *tools) playerLoad(ctx context.Context, _ *mcp.CallToolRequest, input engine.PlayerLoadInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, nil, errors.New("url is required")
	}
	id := toolutil.NormSession(input.Session)
	h := t.Manager.Get(id)
	if err := h.Load(input.URL); err != nil {
		return nil, nil, errors.New(sources.UserMessage(err))
	}
	if input.Wait {
		if err := waitLoaded(ctx, h); err != nil {
			return nil, nil, err
		}
	}
	out, err := playerOutput(id, h)
	return nil, out, err
}

func (t *tools) playerStatus(_ context.Context, _ *mcp.CallToolRequest, input engine.PlayerSessionInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	id := toolutil.NormSession(input.Session)
	var out *PlayerOutput
	if h, ok := t.Manager.Lookup(id); ok {
		var err error
		if out, err = playerOutput(id, h); err != nil {
			return nil, nil, err
		}
	} else {
		out = &PlayerOutput{Session: id, Status: player.StatusIdle, HighlightedIndex: -1, Events: []player.Event{}}
	}
	out.Sessions = t.Manager.IDs()
	return nil, out, nil
}

func (t *tools) playerTick(_ context.Context, _ *mcp.CallToolRequest, input engine.PlayerTimeInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	return t.apply(input.Session, func(h *player.Handle) error { return h.Tick(input.Seconds) })
}

func (t *tools) playerDuration(_ context.Context, _ *mcp.CallToolRequest, input engine.PlayerTimeInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	return t.apply(input.Session, func(h *player.Handle) error { return h.SetDuration(input.Seconds) })
}

func (t *tools) playerSeek(_ context.Context, _ *mcp.CallToolRequest, input engine.PlayerTimeInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	return t.apply(input.Session, func(h *player.Handle) error { return h.Seek(input.Seconds) })
}

func (t *tools) playerCommand(_ context.Context, _ *mcp.CallToolRequest, input engine.PlayerCommandInput) (*mcp.CallToolResult, *PlayerOutput, error) {
	var cmd func(*player.Handle) error
	switch strings.ToLower(strings.TrimSpace(input.Command)) {
	case "toggle_loop", "loop":
		cmd = func(h *player.Handle) error { return h.ToggleLoop() }
	case "rewind":
		cmd = func(h *player.Handle) error { return h.Rewind() }
	case "forward":
		cmd = func(h *player.Handle) error { return h.Forward() }
	case "clear":
		cmd = func(h *player.Handle) error { return h.Clear() }
	default:
		return nil, nil, fmt.Errorf("unknown command %q: use toggle_loop, rewind, forward or clear", input.Command)
	}
	return t.apply(input.Session, cmd)
}

// apply runs cmd on the named session, creating it if needed, and reports the result.
func (t *tools) apply(session string, cmd func(*player.Handle) error) (*mcp.CallToolResult, *PlayerOutput, error) {
	id := toolutil.NormSession(session)
	h := t.Manager.Get(id)
	if err := cmd(h); err != nil {
		return nil, nil, err
	}
	out, err := playerOutput(id, h)
	return nil, out, err
}

func playerOutput(id string, h *player.Handle) (*PlayerOutput, error) {
	snap, err := h.Snapshot()
	if err != nil {
		return nil, err
	}
	out := &PlayerOutput{
		Session:          id,
		Status:           snap.Status,
		VideoID:          snap.VideoID,
		Error:            snap.Error,
		Segments:         snap.Segments,
		CurrentTime:      snap.CurrentTime,
		HighlightedIndex: snap.HighlightedIndex,
		LoopEnabled:      snap.LoopEnabled,
		VideoDuration:    snap.VideoDuration,
		Events:           h.Events.Drain(),
	}
	if out.Events == nil {
		out.Events = []player.Event{}
	}
	if snap.LoopEnabled {
		w := snap.Loop
		out.Loop = &w
	}
	if snap.HighlightedIndex >= 0 {
		tr, err := h.Transcript()
		if err != nil {
			return nil, err
		}
		if tr != nil && snap.HighlightedIndex < tr.Len() {
			out.HighlightedText = tr.At(snap.HighlightedIndex).Text
		}
	}
	return out, nil
}

// waitLoaded polls the session until its load leaves the loading state.
func waitLoaded(ctx context.Context, h *player.Handle) error {
	ctx, cancel := context.WithTimeout(ctx, loadWaitTimeout)
	defer cancel()
	ticker := time.NewTicker(loadPollEvery)
	defer ticker.Stop()
	for {
		snap, err := h.Snapshot()
		if err != nil {
			return err
		}
		if snap.Status != player.StatusLoading {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("player_load: waiting for transcript: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
