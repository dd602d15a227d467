package toolutil

import (
	"testing"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

func TestNormSession(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "default"},
		{"   ", "default"},
		{"tab-1", "tab-1"},
		{" tab-2 ", "tab-2"},
	}
	for _, tt := range tests {
		if got := NormSession(tt.in); got != tt.want {
			t.Errorf("NormSession(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderTranscript(t *testing.T) {
	segs := []engine.TranscriptSegment{
		{Start: 1, Duration: 2, Text: "Hello"},
		{Start: 65.4, Duration: 2, Text: "World"},
	}
	want := "[0:01] Hello\n> [1:05] World\n"
	if got := RenderTranscript(segs, 1); got != want {
		t.Errorf("RenderTranscript() = %q, want %q", got, want)
	}
	if got := RenderTranscript(nil, -1); got != "" {
		t.Errorf("RenderTranscript(nil) = %q, want empty", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name             string
		n, index, size   int
		wantFrom, wantTo int
	}{
		{"centred", 20, 10, 5, 8, 13},
		{"clipped start", 20, 1, 5, 0, 5},
		{"clipped end", 20, 19, 5, 15, 20},
		{"short list", 3, 1, 5, 0, 3},
		{"no highlight", 20, -1, 4, 0, 4},
		{"empty", 0, 0, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := Window(tt.n, tt.index, tt.size)
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("Window(%d, %d, %d) = [%d, %d), want [%d, %d)",
					tt.n, tt.index, tt.size, from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}
