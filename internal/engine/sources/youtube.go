package sources

// YouTube transcript acquisition is split across files by pipeline stage:
//   youtube_videoid.go     URL → video ID (ordered pattern table)
//   youtube_page.go        watch page fetch, Innertube API key strategies, page diagnostics
//   youtube_innertube.go   Client, Innertube constants and types, low-level HTTP primitives
//   youtube_tracks.go      caption catalog → English track
//   youtube_timedtext.go   srv3 timed-text fetch and regex parser
//   youtube_transcript.go  the sequential, cancellable pipeline
//   youtube_errors.go      NetworkError / ParseError taxonomy
//   youtube_search.go      captioned video search (Data API v3 + ytInitialData scraping)
