// Package toolutil provides shared helper functions for go_listen MCP tools.
package toolutil

import (
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// DefaultSession is the player session used when a tool call names none.
const DefaultSession = "default"

// NormSession normalises a session field: empty string → "default".
func NormSession(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSession
	}
	return id
}

// RenderTranscript renders segments one per line as "[m:ss] text".
// highlight marks the active line with "> "; pass -1 for none.
func RenderTranscript(segs []engine.TranscriptSegment, highlight int) string {
	var sb strings.Builder
	for i, s := range segs {
		if i == highlight {
			sb.WriteString("> ")
		}
		sb.WriteString("[")
		sb.WriteString(engine.FormatClock(s.Start))
		sb.WriteString("] ")
		sb.WriteString(s.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Window returns the index range [from, to) of at most size segments centred
// on index, clipped to n. A negative index starts the window at 0.
func Window(n, index, size int) (from, to int) {
	if size <= 0 || n <= 0 {
		return 0, 0
	}
	if index < 0 {
		index = 0
	}
	from = index - size/2
	if from+size > n {
		from = n - size
	}
	if from < 0 {
		from = 0
	}
	to = from + size
	if to > n {
		to = n
	}
	return from, to
}
