package player

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

func mustTranscript(t *testing.T, segs ...engine.TranscriptSegment) *engine.Transcript {
	t.Helper()
	tr, err := engine.NewTranscript("vid", "English", "en", segs)
	require.NoError(t, err)
	return tr
}

// tenSecondSegments covers [0, n*10) with one segment per 10 seconds.
func tenSecondSegments(n int) []engine.TranscriptSegment {
	segs := make([]engine.TranscriptSegment, n)
	for i := range segs {
		segs[i] = engine.TranscriptSegment{Start: float64(i * 10), Duration: 10, Text: "line"}
	}
	return segs
}

func loaded(t *testing.T, duration float64, l Listener) *Synchronizer {
	t.Helper()
	s := NewSynchronizer(l)
	s.SetVideoDuration(duration)
	s.Load(mustTranscript(t, tenSecondSegments(12)...))
	return s
}

func TestHighlightAt(t *testing.T) {
	tr := mustTranscript(t,
		engine.TranscriptSegment{Start: 0, Duration: 2, Text: "a"},
		engine.TranscriptSegment{Start: 3, Duration: 1, Text: "b"},
		engine.TranscriptSegment{Start: 3.5, Duration: 4, Text: "overlaps b"},
		engine.TranscriptSegment{Start: 10, Duration: 1, Text: "c"},
	)
	s := NewSynchronizer(nil)
	s.Load(tr)

	tests := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{1.999, 0},
		{2, -1},
		{2.5, -1},
		{3, 1},
		{3.7, 1}, // b and its overlap both contain t: first wins
		{4, 2},
		{7.49, 2},
		{7.5, -1},
		{10.5, 3},
		{11, -1},
		{100, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.HighlightAt(tt.t), "t=%v", tt.t)
	}
}

func TestHighlightAt_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	segs := make([]engine.TranscriptSegment, 300)
	for i := range segs {
		segs[i] = engine.TranscriptSegment{
			Start:    math.Round(rng.Float64()*6000) / 10,
			Duration: math.Round(rng.Float64()*80)/10 + 0.1,
			Text:     "x",
		}
	}
	tr := mustTranscript(t, segs...)
	s := NewSynchronizer(nil)
	s.Load(tr)

	linear := func(at float64) int {
		for i := 0; i < tr.Len(); i++ {
			if tr.At(i).Contains(at) {
				return i
			}
		}
		return -1
	}
	for i := 0; i < 5000; i++ {
		at := rng.Float64() * 620
		require.Equal(t, linear(at), s.HighlightAt(at), "t=%v", at)
	}
	for i := 0; i < tr.Len(); i++ {
		seg := tr.At(i)
		require.Equal(t, linear(seg.Start), s.HighlightAt(seg.Start))
		require.Equal(t, linear(seg.End()), s.HighlightAt(seg.End()))
	}
}

func TestOnClockTick_HighlightEvents(t *testing.T) {
	log := NewEventLog()
	s := NewSynchronizer(log)
	s.Load(mustTranscript(t,
		engine.TranscriptSegment{Start: 1, Duration: 2, Text: "a"},
		engine.TranscriptSegment{Start: 5, Duration: 2, Text: "b"},
	))
	log.Drain()

	for _, at := range []float64{0, 1, 1.5, 2.9, 3, 5, 6} {
		s.OnClockTick(at)
	}

	var got []int
	for _, e := range log.Drain() {
		require.Equal(t, EventHighlight, e.Type)
		got = append(got, *e.Index)
	}
	assert.Equal(t, []int{0, -1, 1}, got)
	assert.Equal(t, 1, s.State().HighlightedIndex)
	assert.Equal(t, 6.0, s.State().CurrentTime)
}

func TestToggleLoop(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		duration float64
		want     LoopWindow
	}{
		{"centred", 30, 120, LoopWindow{25, 35}},
		{"clamped at start", 2, 120, LoopWindow{0, 7}},
		{"clamped at end", 118, 120, LoopWindow{113, 120}},
		{"at the very end", 120, 120, LoopWindow{115, 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, tt.duration, nil)
			s.OnClockTick(tt.current)
			s.ToggleLoop()
			st := s.State()
			assert.True(t, st.LoopEnabled)
			assert.Equal(t, tt.want, st.Loop)
		})
	}
}

func TestToggleLoop_DisableKeepsWindow(t *testing.T) {
	s := loaded(t, 120, nil)
	s.OnClockTick(30)
	s.ToggleLoop()
	s.ToggleLoop()
	st := s.State()
	assert.False(t, st.LoopEnabled)
	assert.Equal(t, LoopWindow{25, 35}, st.Loop)

	// Inert: no seek back once past the window end.
	log := NewEventLog()
	s.listener = log
	s.OnClockTick(40)
	for _, e := range log.Drain() {
		assert.NotEqual(t, EventSeek, e.Type)
	}
}

func TestShiftLoop(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Synchronizer)
		delta float64
		want  LoopWindow
	}{
		{
			name:  "forward",
			setup: func(s *Synchronizer) { s.OnClockTick(30); s.ToggleLoop() },
			delta: 10,
			want:  LoopWindow{35, 45},
		},
		{
			name:  "backward",
			setup: func(s *Synchronizer) { s.OnClockTick(30); s.ToggleLoop() },
			delta: -10,
			want:  LoopWindow{15, 25},
		},
		{
			name: "end clamps and start is re-derived",
			setup: func(s *Synchronizer) {
				s.SetVideoDuration(200)
				s.OnClockTick(120)
				s.ToggleLoop() // {115, 125}
				s.SetVideoDuration(120)
			},
			delta: 10,
			want:  LoopWindow{110, 120},
		},
		{
			name:  "start clamps and end is re-derived",
			setup: func(s *Synchronizer) { s.OnClockTick(8); s.ToggleLoop() }, // {3, 13}
			delta: -10,
			want:  LoopWindow{0, 10},
		},
		{
			name:  "repeated shifts stay inside",
			setup: func(s *Synchronizer) { s.OnClockTick(100); s.ToggleLoop(); s.ShiftLoop(10); s.ShiftLoop(10) },
			delta: 10,
			want:  LoopWindow{110, 120},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, 120, nil)
			tt.setup(s)
			s.ShiftLoop(tt.delta)
			assert.Equal(t, tt.want, s.State().Loop)
		})
	}
}

func TestShiftLoop_NotLooping(t *testing.T) {
	s := loaded(t, 120, nil)
	s.OnClockTick(30)
	s.ShiftLoop(10)
	assert.Equal(t, LoopWindow{}, s.State().Loop)
}

func TestLoopWindowInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := loaded(t, 120, nil)
	for i := 0; i < 2000; i++ {
		switch rng.Intn(5) {
		case 0:
			s.OnClockTick(rng.Float64() * 140)
		case 1:
			s.ToggleLoop()
		case 2:
			s.ShiftLoop((rng.Float64() - 0.5) * 60)
		case 3:
			s.OnSeek(rng.Float64()*160 - 20)
		case 4:
			if rng.Intn(2) == 0 {
				s.Rewind()
			} else {
				s.Forward()
			}
		}
		st := s.State()
		if st.LoopEnabled {
			require.GreaterOrEqual(t, st.Loop.Start, 0.0)
			require.Less(t, st.Loop.Start, st.Loop.End)
			require.LessOrEqual(t, st.Loop.End, 120.0)
		}
	}
}

func TestOnSeek(t *testing.T) {
	t.Run("recentres outside window", func(t *testing.T) {
		s := loaded(t, 120, nil)
		s.OnClockTick(30)
		s.ToggleLoop()
		s.OnSeek(50)
		st := s.State()
		assert.Equal(t, 50.0, st.CurrentTime)
		assert.Equal(t, LoopWindow{45, 55}, st.Loop)
		assert.True(t, st.LoopEnabled)
	})
	t.Run("inside window keeps it", func(t *testing.T) {
		s := loaded(t, 120, nil)
		s.OnClockTick(30)
		s.ToggleLoop()
		s.OnSeek(33)
		assert.Equal(t, LoopWindow{25, 35}, s.State().Loop)
	})
	t.Run("near end preserves length", func(t *testing.T) {
		s := loaded(t, 120, nil)
		s.OnClockTick(30)
		s.ToggleLoop()
		s.OnSeek(119)
		assert.Equal(t, LoopWindow{110, 120}, s.State().Loop)
	})
	t.Run("not looping only moves", func(t *testing.T) {
		s := loaded(t, 120, nil)
		s.OnSeek(55)
		st := s.State()
		assert.Equal(t, 55.0, st.CurrentTime)
		assert.Equal(t, 5, st.HighlightedIndex)
		assert.False(t, st.LoopEnabled)
	})
}

func TestLoopSeekBackOnTick(t *testing.T) {
	log := NewEventLog()
	s := loaded(t, 120, log)
	s.OnClockTick(30)
	s.ToggleLoop()
	log.Drain()

	s.OnClockTick(34.9)
	for _, e := range log.Drain() {
		assert.NotEqual(t, EventSeek, e.Type)
	}

	s.OnClockTick(35)
	var seeks []float64
	for _, e := range log.Drain() {
		if e.Type == EventSeek {
			seeks = append(seeks, *e.Time)
		}
	}
	assert.Equal(t, []float64{25}, seeks)
}

func TestRewindForward(t *testing.T) {
	t.Run("not looping seeks", func(t *testing.T) {
		log := NewEventLog()
		s := loaded(t, 120, log)
		s.OnClockTick(4)
		log.Drain()

		s.Rewind()
		s.OnClockTick(115)
		s.Forward()

		var seeks []float64
		for _, e := range log.Drain() {
			if e.Type == EventSeek {
				seeks = append(seeks, *e.Time)
			}
		}
		assert.Equal(t, []float64{0, 120}, seeks)
	})
	t.Run("unknown duration", func(t *testing.T) {
		log := NewEventLog()
		s := NewSynchronizer(log)
		s.Load(mustTranscript(t, tenSecondSegments(3)...))
		s.OnClockTick(25)
		log.Drain()
		s.Forward()
		events := log.Drain()
		require.NotEmpty(t, events)
		assert.Equal(t, EventSeek, events[0].Type)
		assert.Equal(t, 35.0, *events[0].Time)
	})
	t.Run("looping shifts window", func(t *testing.T) {
		s := loaded(t, 120, nil)
		s.OnClockTick(30)
		s.ToggleLoop()
		s.Forward()
		assert.Equal(t, LoopWindow{35, 45}, s.State().Loop)
		s.Rewind()
		s.Rewind()
		assert.Equal(t, LoopWindow{15, 25}, s.State().Loop)
		assert.Equal(t, 30.0, s.State().CurrentTime)
	})
}

func TestIdle(t *testing.T) {
	log := NewEventLog()
	s := NewSynchronizer(log)
	s.SetVideoDuration(90)
	s.OnClockTick(12)
	s.OnSeek(20)
	s.ToggleLoop()
	s.ShiftLoop(10)
	s.Rewind()
	s.Forward()

	st := s.State()
	assert.False(t, st.Loaded)
	assert.False(t, st.LoopEnabled)
	assert.Equal(t, -1, st.HighlightedIndex)
	assert.Equal(t, 20.0, st.CurrentTime)
	assert.Equal(t, 90.0, st.VideoDuration)
	assert.Empty(t, log.Drain())
}

func TestLoadAndClear(t *testing.T) {
	log := NewEventLog()
	s := NewSynchronizer(log)
	s.SetVideoDuration(120)
	s.OnClockTick(15)
	s.Load(mustTranscript(t, tenSecondSegments(12)...))

	events := log.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventTranscriptLoaded, events[0].Type)
	assert.Equal(t, 12, events[0].Segments)
	assert.Equal(t, EventHighlight, events[1].Type)
	assert.Equal(t, 1, *events[1].Index)

	s.ToggleLoop()
	s.Clear()
	st := s.State()
	assert.Equal(t, State{HighlightedIndex: -1}, st)
	assert.Nil(t, s.Transcript())

	events = log.Drain()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventHighlight, last.Type)
	assert.Equal(t, -1, *last.Index)
}

func TestSanitizedInputs(t *testing.T) {
	s := loaded(t, 120, nil)
	s.OnClockTick(math.NaN())
	assert.Equal(t, 0.0, s.State().CurrentTime)
	s.OnClockTick(-3)
	assert.Equal(t, 0.0, s.State().CurrentTime)
	assert.Equal(t, 0, s.State().HighlightedIndex)
	s.SetVideoDuration(math.NaN())
	assert.Equal(t, 0.0, s.State().VideoDuration)
}
