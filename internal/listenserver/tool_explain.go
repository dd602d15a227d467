package listenserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *tools) registerSegmentExplain(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "segment_explain",
		Description: "Explain a transcript sentence for an English learner: meaning, difficult words, and one grammar point. Uses the given text, or a segment of the session's loaded transcript (default: the highlighted one). Requires an LLM to be configured.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.segmentExplain)
}

func (t *tools) segmentExplain(ctx context.Context, _ *mcp.CallToolRequest, input engine.SegmentExplainInput) (*mcp.CallToolResult, *engine.SegmentExplainOutput, error) {
	out := &engine.SegmentExplainOutput{Index: -1}
	if text := strings.TrimSpace(input.Text); text != "" {
		out.Text = text
	} else {
		seg, index, err := t.segmentFor(toolutil.NormSession(input.Session), input.Index)
		if err != nil {
			return nil, nil, err
		}
		out.Index, out.Start, out.Text = index, seg.Start, seg.Text
	}

	explanation, err := t.Explain(ctx, out.Text)
	if errors.Is(err, engine.ErrLLMDisabled) {
		return nil, nil, errors.New("segment_explain: no LLM configured (set LLM_API_KEY)")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("segment_explain: %w", err)
	}
	out.Explanation = explanation
	return nil, out, nil
}

// segmentFor picks segment index (or the highlighted one) from a session's transcript.
func (t *tools) segmentFor(session string, index *int) (engine.TranscriptSegment, int, error) {
	h, ok := t.Manager.Lookup(session)
	if !ok {
		return engine.TranscriptSegment{}, -1, fmt.Errorf("segment_explain: no player session %q, pass text or load a video first", session)
	}
	tr, err := h.Transcript()
	if err != nil {
		return engine.TranscriptSegment{}, -1, err
	}
	if tr == nil {
		return engine.TranscriptSegment{}, -1, fmt.Errorf("segment_explain: session %q has no transcript loaded", session)
	}

	i := -1
	if index != nil {
		i = *index
	} else {
		snap, err := h.Snapshot()
		if err != nil {
			return engine.TranscriptSegment{}, -1, err
		}
		i = snap.HighlightedIndex
		if i < 0 {
			return engine.TranscriptSegment{}, -1, errors.New("segment_explain: no segment is highlighted, pass index")
		}
	}
	if i < 0 || i >= tr.Len() {
		return engine.TranscriptSegment{}, -1, fmt.Errorf("segment_explain: index %d out of range [0, %d)", i, tr.Len())
	}
	return tr.At(i), i, nil
}
