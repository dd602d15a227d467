package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranscriptSorts(t *testing.T) {
	src := []TranscriptSegment{
		{Start: 1.0, Duration: 2.0, Text: "second"},
		{Start: 0.5, Duration: 0.3, Text: "first"},
		{Start: 1.0, Duration: 1.0, Text: "third"},
	}
	tr, err := NewTranscript("vid", "English", "en", src)
	require.NoError(t, err)

	got := tr.Segments()
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Text)
	// Stable: equal starts keep source order.
	assert.Equal(t, "second", got[1].Text)
	assert.Equal(t, "third", got[2].Text)

	// Source slice untouched.
	assert.Equal(t, "second", src[0].Text)
}

func TestNewTranscriptEmpty(t *testing.T) {
	_, err := NewTranscript("vid", "English", "en", nil)
	if !errors.Is(err, ErrNoSegments) {
		t.Fatalf("NewTranscript(nil) error = %v, want ErrNoSegments", err)
	}
}

func TestTranscriptImmutable(t *testing.T) {
	tr, err := NewTranscript("vid", "English", "en", []TranscriptSegment{{Start: 0, Duration: 1, Text: "a"}})
	require.NoError(t, err)

	segs := tr.Segments()
	segs[0].Text = "mutated"
	assert.Equal(t, "a", tr.At(0).Text)
}

func TestTranscriptDuration(t *testing.T) {
	tr, err := NewTranscript("vid", "English", "en", []TranscriptSegment{
		{Start: 0, Duration: 10, Text: "long"},
		{Start: 2, Duration: 1, Text: "short"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, tr.Duration(), 1e-9)
}

func TestSegmentContains(t *testing.T) {
	s := TranscriptSegment{Start: 1, Duration: 2}
	assert.False(t, s.Contains(0.999))
	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(2.999))
	assert.False(t, s.Contains(3), "window end is exclusive")
}

func TestTranscriptMarshalJSON(t *testing.T) {
	tr, err := NewTranscript("8YkkvVe_Z8w", "English", "en", []TranscriptSegment{{Start: 0.5, Duration: 0.3, Text: "hi"}})
	require.NoError(t, err)

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"video_id":"8YkkvVe_Z8w","language_name":"English","language_code":"en",
		"segments":[{"start":0.5,"duration":0.3,"text":"hi"}]}`, string(data))
}
