package player

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
)

// ErrSessionClosed is returned by commands issued after Close.
var ErrSessionClosed = errors.New("player session closed")

// Fetcher acquires the transcript for one video id. *sources.Client implements it.
type Fetcher interface {
	FetchTranscript(ctx context.Context, videoID string) (*engine.Transcript, error)
}

// LoadStatus is the state of a session's most recent load.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusFailed  LoadStatus = "failed"
)

// Snapshot is a consistent copy of a session, taken on its queue.
type Snapshot struct {
	State
	Status   LoadStatus `json:"status"`
	VideoID  string     `json:"video_id,omitempty"`
	Error    string     `json:"error,omitempty"`
	Segments int        `json:"segments"`
}

// Session serializes every synchronizer call through one goroutine and keeps
// at most one transcript load in flight. A newer Load cancels the older one;
// a canceled run's result is dropped without notifying anybody.
type Session struct {
	fetcher  Fetcher
	listener Listener
	syncer   *Synchronizer

	ops       chan func()
	done      chan struct{}
	closeOnce sync.Once
	loads     sync.WaitGroup

	// Owned by the queue goroutine.
	gen     uint64
	cancel  context.CancelFunc
	status  LoadStatus
	videoID string
	lastErr string
	closed  bool
}

// NewSession starts a session's queue. A nil listener discards notifications.
func NewSession(f Fetcher, l Listener) *Session {
	if l == nil {
		l = NopListener{}
	}
	s := &Session{
		fetcher:  f,
		listener: l,
		syncer:   NewSynchronizer(l),
		ops:      make(chan func()),
		done:     make(chan struct{}),
		status:   StatusIdle,
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.done:
			return
		}
	}
}

// do runs fn on the queue and waits for it.
func (s *Session) do(fn func()) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	finished := make(chan struct{})
	select {
	case s.ops <- func() { fn(); close(finished) }:
	case <-s.done:
		return ErrSessionClosed
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// post queues fn without waiting; dropped once the session is closed.
func (s *Session) post(fn func()) {
	select {
	case s.ops <- fn:
	case <-s.done:
	}
}

// Load starts acquiring the transcript behind rawURL. It returns once the
// load is started; the outcome arrives through the listener.
func (s *Session) Load(rawURL string) error {
	id, ok := sources.ExtractVideoID(rawURL)
	if !ok {
		return sources.ErrInvalidURL
	}
	return s.LoadVideo(id)
}

// LoadVideo is Load for an already extracted video id.
func (s *Session) LoadVideo(videoID string) error {
	return s.do(func() { s.startLoad(videoID) })
}

func (s *Session) startLoad(videoID string) {
	if s.closed {
		return
	}
	s.cancelLoad()
	s.syncer.Clear()

	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.status = StatusLoading
	s.videoID = videoID
	s.lastErr = ""

	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		tr, err := s.fetcher.FetchTranscript(ctx, videoID)
		s.post(func() { s.finishLoad(gen, tr, err) })
	}()
}

func (s *Session) finishLoad(gen uint64, tr *engine.Transcript, err error) {
	if gen != s.gen {
		slog.Debug("player: dropped stale load", slog.Uint64("gen", gen), slog.Uint64("current", s.gen))
		return
	}
	s.cancelLoad()
	if err == nil && tr == nil {
		err = sources.ErrEmptyTranscript
	}
	if err != nil {
		s.status = StatusFailed
		s.lastErr = sources.UserMessage(err)
		s.listener.OnTranscriptFailed(err)
		return
	}
	s.status = StatusLoaded
	s.syncer.Load(tr)
}

// cancelLoad cancels the in-flight load, if any. Its result will carry a
// stale generation once a new load starts, or is dropped on Clear.
func (s *Session) cancelLoad() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Tick feeds the playback clock.
func (s *Session) Tick(t float64) error {
	return s.do(func() { s.syncer.OnClockTick(t) })
}

// SetDuration reports the media duration once it is known.
func (s *Session) SetDuration(d float64) error {
	return s.do(func() { s.syncer.SetVideoDuration(d) })
}

// Seek reports a user seek.
func (s *Session) Seek(t float64) error {
	return s.do(func() { s.syncer.OnSeek(t) })
}

// ToggleLoop flips loop mode.
func (s *Session) ToggleLoop() error {
	return s.do(s.syncer.ToggleLoop)
}

// Rewind moves back 10 seconds, or shifts the loop window while looping.
func (s *Session) Rewind() error {
	return s.do(s.syncer.Rewind)
}

// Forward moves ahead 10 seconds, or shifts the loop window while looping.
func (s *Session) Forward() error {
	return s.do(s.syncer.Forward)
}

// Clear cancels any in-flight load and returns the session to idle.
func (s *Session) Clear() error {
	return s.do(func() {
		s.cancelLoad()
		s.gen++
		s.syncer.Clear()
		s.status = StatusIdle
		s.videoID = ""
		s.lastErr = ""
	})
}

// Snapshot returns the session state.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.do(func() {
		snap = Snapshot{
			State:   s.syncer.State(),
			Status:  s.status,
			VideoID: s.videoID,
			Error:   s.lastErr,
		}
		if tr := s.syncer.Transcript(); tr != nil {
			snap.Segments = tr.Len()
		}
	})
	return snap, err
}

// Transcript returns the loaded transcript, or nil.
func (s *Session) Transcript() (*engine.Transcript, error) {
	var tr *engine.Transcript
	err := s.do(func() { tr = s.syncer.Transcript() })
	return tr, err
}

// Close cancels the in-flight load, stops the queue and waits for load
// goroutines to return. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		_ = s.do(func() {
			s.cancelLoad()
			s.closed = true
		})
		close(s.done)
		s.loads.Wait()
	})
}
