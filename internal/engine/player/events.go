package player

import (
	"sync"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
)

// EventType names one outbound notification.
type EventType string

const (
	EventHighlight        EventType = "highlight"
	EventLoopWindow       EventType = "loop_window"
	EventSeek             EventType = "seek"
	EventTranscriptLoaded EventType = "transcript_loaded"
	EventTranscriptFailed EventType = "transcript_failed"
)

// Event is one recorded notification. Only the fields of its type are set.
type Event struct {
	Type     EventType   `json:"type"`
	Index    *int        `json:"index,omitempty"`
	Window   *LoopWindow `json:"window,omitempty"`
	Time     *float64    `json:"time,omitempty"`
	VideoID  string      `json:"video_id,omitempty"`
	Segments int         `json:"segments,omitempty"`
	Error    string      `json:"error,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// EventLog is a Listener that buffers events until drained.
// Safe for one writer (the session queue) and concurrent readers.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// defaultEventLimit bounds a log nobody drains; the oldest events go first.
const defaultEventLimit = 1024

// NewEventLog returns an empty log.
func NewEventLog() *EventLog {
	return &EventLog{limit: defaultEventLimit}
}

func (l *EventLog) add(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit > 0 && len(l.events) >= l.limit {
		l.events = append(l.events[:0], l.events[1:]...)
	}
	l.events = append(l.events, e)
}

// Drain returns the buffered events in order and empties the log.
func (l *EventLog) Drain() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}

// Len reports how many events are buffered.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *EventLog) OnHighlightChanged(index int) {
	l.add(Event{Type: EventHighlight, Index: &index})
}

func (l *EventLog) OnLoopWindowChanged(start, end float64) {
	l.add(Event{Type: EventLoopWindow, Window: &LoopWindow{Start: start, End: end}})
}

func (l *EventLog) OnSeekRequested(t float64) {
	l.add(Event{Type: EventSeek, Time: &t})
}

func (l *EventLog) OnTranscriptLoaded(tr *engine.Transcript) {
	l.add(Event{Type: EventTranscriptLoaded, VideoID: tr.VideoID(), Segments: tr.Len()})
}

func (l *EventLog) OnTranscriptFailed(err error) {
	l.add(Event{Type: EventTranscriptFailed, Error: err.Error(), Message: sources.UserMessage(err)})
}
