package engine

// --- Transcript tool types ---

type TranscriptFetchInput struct {
	URL    string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, shorts, embed)"`
	Format string `json:"format,omitempty" jsonschema:"Output format: json (segments only, default) or text (segments plus [m:ss] rendered lines)"`
}

type TranscriptOutput struct {
	VideoID      string              `json:"video_id"`
	LanguageName string              `json:"language_name"`
	LanguageCode string              `json:"language_code"`
	Duration     float64             `json:"duration"`
	Segments     []TranscriptSegment `json:"segments"`
	Text         string              `json:"text,omitempty"`
}

// --- Video search tool types ---

type VideoSearchInput struct {
	Query string `json:"query" jsonschema:"What to listen to, e.g. 'ted talk climate' or 'english podcast beginner'"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max videos (default: 5, max: 20)"`
}

// YouTubeVideo is one captioned video found by video_search.
type YouTubeVideo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Channel string `json:"channel,omitempty"`
	Length  string `json:"length,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type VideoSearchOutput struct {
	Query  string         `json:"query"`
	Videos []YouTubeVideo `json:"videos"`
}

// --- Player tool types ---

type PlayerLoadInput struct {
	Session string `json:"session,omitempty" jsonschema:"Player session id (default: default)"`
	URL     string `json:"url" jsonschema:"YouTube video URL"`
	Wait    bool   `json:"wait,omitempty" jsonschema:"Block until the transcript has loaded or failed"`
}

type PlayerSessionInput struct {
	Session string `json:"session,omitempty" jsonschema:"Player session id (default: default)"`
}

type PlayerTimeInput struct {
	Session string  `json:"session,omitempty" jsonschema:"Player session id (default: default)"`
	Seconds float64 `json:"seconds" jsonschema:"Position or duration in seconds"`
}

type PlayerCommandInput struct {
	Session string `json:"session,omitempty" jsonschema:"Player session id (default: default)"`
	Command string `json:"command" jsonschema:"One of: toggle_loop, rewind, forward, clear"`
}

// --- Explain tool types ---

type SegmentExplainInput struct {
	Session string `json:"session,omitempty" jsonschema:"Player session id (default: default)"`
	Index   *int   `json:"index,omitempty" jsonschema:"Segment index to explain (default: the highlighted segment)"`
	Text    string `json:"text,omitempty" jsonschema:"Explain this sentence instead of a transcript segment"`
}

type SegmentExplainOutput struct {
	Index       int     `json:"index"`
	Start       float64 `json:"start,omitempty"`
	Text        string  `json:"text"`
	Explanation string  `json:"explanation"`
}

// --- Reading list tool types ---

type ReadingAddInput struct {
	Title   string `json:"title,omitempty" jsonschema:"Entry title (default: the first sentence)"`
	Content string `json:"content" jsonschema:"Text to practise; split into sentences on save"`
}

type ReadingListInput struct {
	Query string `json:"query,omitempty" jsonschema:"Only entries whose title or text contains this"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max entries, newest first (default: 20, max: 200)"`
}

type ReadingIDInput struct {
	ID int64 `json:"id" jsonschema:"Entry id from reading_list"`
}

type ReadingDeleteOutput struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
