package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"
	"github.com/anatolykoptev/go_listen/internal/toolutil"

	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval is how often the simulated playhead advances.
const tickInterval = time.Second

// Model is the root bubbletea model of the terminal player. The playhead is
// simulated: it advances one second per tick while playing, and the
// transcript end stands in for the video duration.
type Model struct {
	session *player.Session
	bridge  *eventBridge
	rawURL  string

	tr       *engine.Transcript
	playing  bool
	tickGen  int
	position float64
	duration float64

	highlight   int
	loopEnabled bool
	loop        player.LoopWindow

	statusText   string
	errorMessage string

	width  int
	height int
}

// NewModel returns a player for rawURL driving session. bridge must be the
// session's listener.
func NewModel(session *player.Session, bridge *eventBridge, rawURL string) Model {
	return Model{
		session:    session,
		bridge:     bridge,
		rawURL:     rawURL,
		highlight:  -1,
		statusText: "Loading transcript...",
	}
}

// Init starts the load and the event reader.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.session, m.rawURL), waitEventCmd(m.bridge))
}

// loadCmd starts the session's load. Only an unusable URL fails here; the
// outcome of the load itself arrives through the bridge.
func loadCmd(s *player.Session, rawURL string) tea.Cmd {
	return func() tea.Msg {
		if err := s.Load(rawURL); err != nil {
			return TranscriptFailedMsg{Err: err}
		}
		return nil
	}
}

func playTickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return PlayTickMsg{Gen: gen}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TranscriptLoadedMsg:
		m.tr = msg.Transcript
		m.duration = msg.Transcript.Duration()
		m.errorMessage = ""
		m.statusText = fmt.Sprintf("%d segments, %s", msg.Transcript.Len(), msg.Transcript.LanguageName())
		if err := m.session.SetDuration(m.duration); err != nil {
			m.errorMessage = err.Error()
		}
		return m, tea.Batch(waitEventCmd(m.bridge), m.play())

	case TranscriptFailedMsg:
		m.tr = nil
		m.playing = false
		m.errorMessage = sources.UserMessage(msg.Err)
		m.statusText = "No transcript"
		return m, waitEventCmd(m.bridge)

	case HighlightMsg:
		m.highlight = msg.Index
		return m, waitEventCmd(m.bridge)

	case LoopWindowMsg:
		m.loop = player.LoopWindow{Start: msg.Start, End: msg.End}
		return m, waitEventCmd(m.bridge)

	case SeekMsg:
		m.position = msg.Time
		return m, waitEventCmd(m.bridge)

	case PlayTickMsg:
		if msg.Gen != m.tickGen || !m.playing {
			return m, nil
		}
		m.position += tickInterval.Seconds()
		if m.position >= m.duration {
			m.position = m.duration
			m.playing = false
		}
		m.exec(func() error { return m.session.Tick(m.position) })
		if !m.playing {
			return m, nil
		}
		return m, playTickCmd(m.tickGen)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeySpace:
		if m.tr == nil {
			return m, nil
		}
		if m.playing {
			m.playing = false
			return m, nil
		}
		if m.position >= m.duration {
			m.position = 0
			m.exec(func() error { return m.session.Seek(0) })
		}
		return m, m.play()

	case KeyLoop:
		m.exec(m.session.ToggleLoop)

	case KeyLeft, KeyBack:
		m.exec(m.session.Rewind)

	case KeyRight, KeyForward:
		m.exec(m.session.Forward)
	}
	return m, nil
}

// play starts a new tick chain; older chains die on their stale generation.
func (m *Model) play() tea.Cmd {
	m.playing = true
	m.tickGen++
	return playTickCmd(m.tickGen)
}

// exec runs a session command, then mirrors the session state.
func (m *Model) exec(cmd func() error) {
	if err := cmd(); err != nil {
		m.errorMessage = err.Error()
		return
	}
	snap, err := m.session.Snapshot()
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.highlight = snap.HighlightedIndex
	m.loopEnabled = snap.LoopEnabled
	m.loop = snap.Loop
}

// View renders the player.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("go_listen"))
	if m.tr != nil {
		b.WriteString("  " + statusStyle.Render(m.tr.VideoID()))
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(m.width, 40))))
	b.WriteString("\n")

	switch {
	case m.errorMessage != "":
		b.WriteString(errorStyle.Render(m.errorMessage))
		b.WriteString("\n")
	case m.tr == nil:
		b.WriteString(dimStyle.Render(m.statusText))
		b.WriteString("\n")
	default:
		b.WriteString(m.transcriptView())
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", max(m.width, 40))))
	b.WriteString("\n")
	b.WriteString(footer())
	return b.String()
}

func (m Model) statusLine() string {
	state := statusStyle.Render("⏸ paused")
	if m.playing {
		state = playingStyle.Render("▶ playing")
	}
	line := fmt.Sprintf("%s  %s / %s", state,
		engine.FormatClock(m.position), engine.FormatClock(m.duration))
	if m.loopEnabled {
		line += "  " + loopStyle.Render(fmt.Sprintf("⟲ %s–%s",
			engine.FormatClock(m.loop.Start), engine.FormatClock(m.loop.End)))
	}
	if m.tr != nil {
		line += "  " + statusStyle.Render(m.statusText)
	}
	return line
}

// transcriptView renders the segments around the highlight.
func (m Model) transcriptView() string {
	rows := m.height - 6
	if rows < 3 {
		rows = 9
	}
	width := m.width - 10
	if width < 20 {
		width = 70
	}

	from, to := toolutil.Window(m.tr.Len(), m.highlight, rows)
	var b strings.Builder
	for i := from; i < to; i++ {
		seg := m.tr.At(i)
		text := engine.TruncateRunes(seg.Text, width, "…")
		ts := timestampStyle.Render(fmt.Sprintf("[%s]", engine.FormatClock(seg.Start)))
		if i == m.highlight {
			b.WriteString(selectedStyle.Render("▸ ") + ts + " " + selectedStyle.Render(text))
		} else {
			b.WriteString("  " + ts + " " + dimStyle.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func footer() string {
	keys := []struct{ key, desc string }{
		{"space", "play/pause"},
		{"l", "loop"},
		{"←/→", "10s"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = footerKeyStyle.Render(k.key) + " " + footerDescStyle.Render(k.desc)
	}
	return strings.Join(parts, "  ")
}
