package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// HighlightMsg reports a new highlighted segment (-1 = none).
type HighlightMsg struct {
	Index int
}

// LoopWindowMsg reports a new loop window.
type LoopWindowMsg struct {
	Start, End float64
}

// SeekMsg asks the playhead to jump.
type SeekMsg struct {
	Time float64
}

// TranscriptLoadedMsg carries a freshly loaded transcript.
type TranscriptLoadedMsg struct {
	Transcript *engine.Transcript
}

// TranscriptFailedMsg carries a load failure.
type TranscriptFailedMsg struct {
	Err error
}

// PlayTickMsg advances the simulated playhead. Ticks from an older
// play run carry a stale generation and are ignored.
type PlayTickMsg struct {
	Gen int
}

// eventBridge is a player.Listener that turns notifications into tea messages.
// Notifications are queued without blocking: the session calls the listener
// from its queue goroutine while Update may be waiting on that same queue.
type eventBridge struct {
	mu      sync.Mutex
	pending []tea.Msg
	ready   chan struct{}
	quit    chan struct{}
}

func newEventBridge() *eventBridge {
	return &eventBridge{ready: make(chan struct{}, 1), quit: make(chan struct{})}
}

func (b *eventBridge) send(msg tea.Msg) {
	select {
	case <-b.quit:
		return
	default:
	}
	b.mu.Lock()
	b.pending = append(b.pending, msg)
	b.mu.Unlock()
	b.signal()
}

func (b *eventBridge) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// next pops the oldest queued message without waiting.
func (b *eventBridge) next() (tea.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil, false
	}
	msg := b.pending[0]
	b.pending[0] = nil
	b.pending = b.pending[1:]
	if len(b.pending) > 0 {
		b.signal()
	}
	return msg, true
}

// Len reports how many messages are queued.
func (b *eventBridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// receive waits for the next message; nil once the bridge is stopped.
func (b *eventBridge) receive() tea.Msg {
	for {
		if msg, ok := b.next(); ok {
			return msg
		}
		select {
		case <-b.ready:
		case <-b.quit:
			return nil
		}
	}
}

// stop wakes a waiting reader and discards later notifications.
func (b *eventBridge) stop() {
	select {
	case <-b.quit:
	default:
		close(b.quit)
	}
}

func (b *eventBridge) OnHighlightChanged(index int) { b.send(HighlightMsg{Index: index}) }
func (b *eventBridge) OnLoopWindowChanged(start, end float64) {
	b.send(LoopWindowMsg{Start: start, End: end})
}
func (b *eventBridge) OnSeekRequested(t float64) { b.send(SeekMsg{Time: t}) }
func (b *eventBridge) OnTranscriptLoaded(tr *engine.Transcript) {
	b.send(TranscriptLoadedMsg{Transcript: tr})
}
func (b *eventBridge) OnTranscriptFailed(err error) { b.send(TranscriptFailedMsg{Err: err}) }

// waitEventCmd reads the next notification from the bridge.
func waitEventCmd(b *eventBridge) tea.Cmd {
	return func() tea.Msg { return b.receive() }
}
