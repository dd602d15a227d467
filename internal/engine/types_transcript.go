package engine

import (
	"encoding/json"
	"errors"
	"sort"
)

// ErrNoSegments is returned when a transcript would be built from zero segments.
// An empty result means "no transcript", never an empty Transcript.
var ErrNoSegments = errors.New("transcript has no segments")

// TranscriptSegment is one timed caption paragraph.
// Its active window is [Start, Start+Duration).
type TranscriptSegment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// End returns the exclusive end of the segment's active window.
func (s TranscriptSegment) End() float64 { return s.Start + s.Duration }

// Contains reports whether t falls inside the segment's active window.
func (s TranscriptSegment) Contains(t float64) bool {
	return t >= s.Start && t < s.End()
}

// Transcript is the immutable result of one acquisition run.
// Segments are sorted ascending by start time regardless of source order.
type Transcript struct {
	videoID      string
	languageName string
	languageCode string
	segments     []TranscriptSegment
}

// NewTranscript copies and stably sorts segs by start time.
func NewTranscript(videoID, languageName, languageCode string, segs []TranscriptSegment) (*Transcript, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	sorted := make([]TranscriptSegment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return &Transcript{
		videoID:      videoID,
		languageName: languageName,
		languageCode: languageCode,
		segments:     sorted,
	}, nil
}

func (t *Transcript) VideoID() string      { return t.videoID }
func (t *Transcript) LanguageName() string { return t.languageName }
func (t *Transcript) LanguageCode() string { return t.languageCode }
func (t *Transcript) Len() int             { return len(t.segments) }

// At returns the i-th segment in start order.
func (t *Transcript) At(i int) TranscriptSegment { return t.segments[i] }

// Segments returns a copy of the ordered segment list.
func (t *Transcript) Segments() []TranscriptSegment {
	out := make([]TranscriptSegment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Duration returns the end of the last-ending segment.
func (t *Transcript) Duration() float64 {
	var end float64
	for _, s := range t.segments {
		if s.End() > end {
			end = s.End()
		}
	}
	return end
}

type transcriptJSON struct {
	VideoID      string              `json:"video_id"`
	LanguageName string              `json:"language_name"`
	LanguageCode string              `json:"language_code"`
	Segments     []TranscriptSegment `json:"segments"`
}

// MarshalJSON implements json.Marshaler.
func (t *Transcript) MarshalJSON() ([]byte, error) {
	return json.Marshal(transcriptJSON{
		VideoID:      t.videoID,
		LanguageName: t.languageName,
		LanguageCode: t.languageCode,
		Segments:     t.segments,
	})
}
