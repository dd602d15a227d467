// Package player maps an external playback clock onto a loaded transcript:
// which segment is highlighted, and the loop window used for repeated listening.
package player

import (
	"math"
	"sort"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

const (
	loopHalfWidth = 5.0  // toggleLoop opens [t-5, t+5]
	navStep       = 10.0 // rewind/forward distance
	minLoopLength = 1.0
)

// LoopWindow is the [Start, End) range replayed while looping.
type LoopWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns End-Start.
func (w LoopWindow) Length() float64 { return w.End - w.Start }

// State is the synchronizer's whole mutable state. Callers get copies.
type State struct {
	Loaded           bool       `json:"loaded"`
	CurrentTime      float64    `json:"current_time"`
	HighlightedIndex int        `json:"highlighted_index"` // -1 = none
	LoopEnabled      bool       `json:"loop_enabled"`
	Loop             LoopWindow `json:"loop"`
	VideoDuration    float64    `json:"video_duration"` // 0 = unknown
}

// Listener receives the synchronizer's outbound notifications.
type Listener interface {
	OnHighlightChanged(index int)
	OnLoopWindowChanged(start, end float64)
	OnSeekRequested(t float64)
	OnTranscriptLoaded(tr *engine.Transcript)
	OnTranscriptFailed(err error)
}

// NopListener discards every notification.
type NopListener struct{}

func (NopListener) OnHighlightChanged(int)                {}
func (NopListener) OnLoopWindowChanged(float64, float64)  {}
func (NopListener) OnSeekRequested(float64)               {}
func (NopListener) OnTranscriptLoaded(*engine.Transcript) {}
func (NopListener) OnTranscriptFailed(error)              {}

// Synchronizer is single-owner: it must only be called from one goroutine
// (see Session). No operation blocks or fails; inputs are clamped.
type Synchronizer struct {
	state    State
	tr       *engine.Transcript
	starts   []float64
	maxEnd   []float64 // maxEnd[i] = max end over segments[0..i]
	listener Listener
}

// NewSynchronizer returns an Idle synchronizer. A nil listener discards notifications.
func NewSynchronizer(l Listener) *Synchronizer {
	if l == nil {
		l = NopListener{}
	}
	return &Synchronizer{state: State{HighlightedIndex: -1}, listener: l}
}

// State returns a copy of the current state.
func (s *Synchronizer) State() State { return s.state }

// Transcript returns the loaded transcript, or nil when Idle.
func (s *Synchronizer) Transcript() *engine.Transcript { return s.tr }

// Load moves to Loaded with tr. Highlight and loop are reset; the known
// video duration and current time are kept.
func (s *Synchronizer) Load(tr *engine.Transcript) {
	if tr == nil {
		s.Clear()
		return
	}
	s.tr = tr
	n := tr.Len()
	s.starts = make([]float64, n)
	s.maxEnd = make([]float64, n)
	for i := 0; i < n; i++ {
		seg := tr.At(i)
		s.starts[i] = seg.Start
		s.maxEnd[i] = seg.End()
		if i > 0 && s.maxEnd[i-1] > s.maxEnd[i] {
			s.maxEnd[i] = s.maxEnd[i-1]
		}
	}
	s.state.Loaded = true
	s.state.LoopEnabled = false
	s.state.Loop = LoopWindow{}
	s.state.HighlightedIndex = -1
	s.listener.OnTranscriptLoaded(tr)
	s.updateHighlight()
}

// Clear returns to Idle and resets all state.
func (s *Synchronizer) Clear() {
	hadHighlight := s.state.HighlightedIndex != -1
	s.tr, s.starts, s.maxEnd = nil, nil, nil
	s.state = State{HighlightedIndex: -1}
	if hadHighlight {
		s.listener.OnHighlightChanged(-1)
	}
}

// SetVideoDuration records the media duration used by every clamp.
func (s *Synchronizer) SetVideoDuration(d float64) {
	s.state.VideoDuration = sanitize(d)
}

// OnClockTick records the playback position, updates the highlight and,
// while looping past the window end, requests a seek back to its start.
func (s *Synchronizer) OnClockTick(t float64) {
	s.state.CurrentTime = sanitize(t)
	if !s.state.Loaded {
		return
	}
	s.updateHighlight()
	if s.state.LoopEnabled && s.state.CurrentTime >= s.state.Loop.End {
		s.listener.OnSeekRequested(s.state.Loop.Start)
	}
}

// OnSeek records an external seek. While looping, a seek outside the window
// recentres the window on t with its length preserved.
func (s *Synchronizer) OnSeek(t float64) {
	s.state.CurrentTime = sanitize(t)
	if !s.state.Loaded {
		return
	}
	s.updateHighlight()
	if !s.state.LoopEnabled {
		return
	}
	t = s.state.CurrentTime
	w := s.state.Loop
	if t >= w.Start && t <= w.End {
		return
	}
	half := w.Length() / 2
	s.setLoop(s.fitWindow(t-half, t+half))
}

// ToggleLoop flips loop mode. Enabling opens a 10 second window centred on
// the current position; disabling keeps the window but ignores it.
func (s *Synchronizer) ToggleLoop() {
	if !s.state.Loaded {
		return
	}
	s.state.LoopEnabled = !s.state.LoopEnabled
	if !s.state.LoopEnabled {
		return
	}
	t := s.state.CurrentTime
	s.setLoop(s.normalize(t-loopHalfWidth, t+loopHalfWidth))
}

// ShiftLoop moves the loop window by delta seconds, keeping its length.
func (s *Synchronizer) ShiftLoop(delta float64) {
	if !s.state.Loaded || !s.state.LoopEnabled || math.IsNaN(delta) {
		return
	}
	w := s.state.Loop
	start := w.Start + delta
	s.setLoop(s.fitWindow(start, start+w.Length()))
}

// Rewind shifts the loop window back while looping, otherwise requests a
// seek 10 seconds back.
func (s *Synchronizer) Rewind() {
	if !s.state.Loaded {
		return
	}
	if s.state.LoopEnabled {
		s.ShiftLoop(-navStep)
		return
	}
	target := math.Max(0, s.state.CurrentTime-navStep)
	s.listener.OnSeekRequested(target)
	s.OnSeek(target)
}

// Forward shifts the loop window ahead while looping, otherwise requests a
// seek 10 seconds ahead, capped at the video duration when it is known.
func (s *Synchronizer) Forward() {
	if !s.state.Loaded {
		return
	}
	if s.state.LoopEnabled {
		s.ShiftLoop(navStep)
		return
	}
	target := s.state.CurrentTime + navStep
	if s.state.VideoDuration > 0 {
		target = math.Min(s.state.VideoDuration, target)
	}
	s.listener.OnSeekRequested(target)
	s.OnSeek(target)
}

// HighlightAt returns the first segment (in start order) whose window
// contains t, or -1. Equivalent to a linear scan, in O(log n).
func (s *Synchronizer) HighlightAt(t float64) int {
	n := len(s.starts)
	if n == 0 {
		return -1
	}
	// First index whose running max end passes t: no earlier segment can contain t.
	j := sort.Search(n, func(i int) bool { return s.maxEnd[i] > t })
	// Last index starting at or before t: no later segment can contain t.
	k := sort.Search(n, func(i int) bool { return s.starts[i] > t }) - 1
	if j <= k {
		return j
	}
	return -1
}

func (s *Synchronizer) updateHighlight() {
	idx := s.HighlightAt(s.state.CurrentTime)
	if idx == s.state.HighlightedIndex {
		return
	}
	s.state.HighlightedIndex = idx
	s.listener.OnHighlightChanged(idx)
}

func (s *Synchronizer) setLoop(w LoopWindow) {
	s.state.Loop = w
	s.listener.OnLoopWindowChanged(w.Start, w.End)
}

// duration is the clamp bound: the reported video duration, or the
// transcript end while the player has not reported one.
func (s *Synchronizer) duration() float64 {
	if s.state.VideoDuration > 0 {
		return s.state.VideoDuration
	}
	if s.tr != nil {
		return s.tr.Duration()
	}
	return 0
}

// fitWindow slides [start, end) back inside [0, duration] without changing
// its length where possible, then applies normalize.
func (s *Synchronizer) fitWindow(start, end float64) LoopWindow {
	d := s.duration()
	length := end - start
	if end > d {
		end = d
		start = end - length
	}
	if start < 0 {
		start = 0
		end = math.Min(d, length)
	}
	return s.normalize(start, end)
}

// normalize clamps both ends into [0, duration]; a window left empty becomes
// [start, min(duration, start+1)).
func (s *Synchronizer) normalize(start, end float64) LoopWindow {
	d := s.duration()
	start = clamp(start, 0, d)
	end = clamp(end, 0, d)
	if start >= end {
		end = math.Min(d, start+minLoopLength)
		if start >= end {
			start = math.Max(0, end-minLoopLength)
		}
	}
	return LoopWindow{Start: start, End: end}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
