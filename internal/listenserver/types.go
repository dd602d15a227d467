package listenserver

import (
	"github.com/anatolykoptev/go_listen/internal/engine/player"
	"github.com/anatolykoptev/go_listen/internal/engine/reading"
)

// PlayerOutput is a player session's state plus the events raised since the
// previous call on that session.
type PlayerOutput struct {
	Session          string             `json:"session"`
	Status           player.LoadStatus  `json:"status"`
	VideoID          string             `json:"video_id,omitempty"`
	Error            string             `json:"error,omitempty"`
	Segments         int                `json:"segments"`
	CurrentTime      float64            `json:"current_time"`
	HighlightedIndex int                `json:"highlighted_index"`
	HighlightedText  string             `json:"highlighted_text,omitempty"`
	LoopEnabled      bool               `json:"loop_enabled"`
	Loop             *player.LoopWindow `json:"loop,omitempty"`
	VideoDuration    float64            `json:"video_duration"`
	Events           []player.Event     `json:"events"`
	Sessions         []string           `json:"sessions,omitempty"`
}

type ReadingListOutput struct {
	Count   int             `json:"count"`
	Entries []reading.Entry `json:"entries"`
}
