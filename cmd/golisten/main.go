// golisten plays along with a YouTube video's English transcript in the
// terminal: the active line is highlighted as a simulated playhead advances,
// and any stretch can be looped for repeated listening.
//
// Usage: golisten <youtube-url>
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_listen/internal/engine"
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/sources"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: golisten <youtube-url>")
		os.Exit(2)
	}

	// The terminal belongs to the UI; logs go to stderr only when asked for.
	if logFile := env.Str("GOLISTEN_LOG", ""); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			defer f.Close()
			slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
		}
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	engine.Init(engine.Config{
		ConnectTimeout:       env.Duration("CONNECT_TIMEOUT", engine.DefaultConnectTimeout),
		ReadTimeout:          env.Duration("READ_TIMEOUT", engine.DefaultReadTimeout),
		YouTubeRate:          env.Float("YT_RATE", 2),
		YouTubeBurst:         env.Int("YT_BURST", 4),
		AndroidClientVersion: env.Str("YT_ANDROID_VERSION", engine.DefaultAndroidClientVersion),
	})

	bridge := newEventBridge()
	session := player.NewSession(sources.NewClient(), bridge)

	p := tea.NewProgram(NewModel(session, bridge, os.Args[1]), tea.WithAltScreen())
	_, err := p.Run()

	bridge.stop()
	done := make(chan struct{})
	go func() {
		session.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
