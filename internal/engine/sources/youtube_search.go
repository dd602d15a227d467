package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// Video search: finds captioned videos to practise with. Uses the Data API v3
// when a key is configured; otherwise scrapes ytInitialData from the results page.

const (
	stageSearch = "search"

	ytInitialDataMarker = "var ytInitialData = "
	ytCaptionedFilter   = "EgQQASgB" // videos only, subtitles/CC
	defaultSearchLimit  = 5
	maxSearchLimit      = 20
)

// ErrNoResults is returned when a search page carries no video list at all.
var ErrNoResults = fmt.Errorf("%w: no search results", ErrParse)

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// --- ytInitialData scraping types ---

type ytRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (r ytRuns) text() string {
	var sb strings.Builder
	for _, run := range r.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

type ytVideoRenderer struct {
	VideoID            string  `json:"videoId"`
	Title              ytRuns  `json:"title"`
	OwnerText          ytRuns  `json:"ownerText"`
	DescriptionSnippet *ytRuns `json:"descriptionSnippet"`
	LengthText         *struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
}

// SearchVideos returns up to limit captioned videos matching query.
func (c *Client) SearchVideos(ctx context.Context, query string, limit int) ([]engine.YouTubeVideo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	engine.IncrSearchRequests()

	if c.DataAPIKey != "" {
		videos, err := c.searchDataAPI(ctx, query, limit)
		if err == nil {
			return videos, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		slog.Warn("youtube: data API search failed, scraping results page", slog.Any("error", err))
	}
	return c.searchResultsPage(ctx, query, limit)
}

func (c *Client) searchDataAPI(ctx context.Context, query string, limit int) ([]engine.YouTubeVideo, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("videoCaption", "closedCaption")
	params.Set("relevanceLanguage", "en")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("key", c.DataAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DataAPIURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, networkError(stageSearch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	body, err := c.do(ctx, stageSearch, req, maxResultsBytes)
	if err != nil {
		return nil, err
	}
	var result ytDataSearchResp
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, parseError(stageSearch, ErrNoResults, fmt.Errorf("decode data API: %w", err))
	}

	videos := make([]engine.YouTubeVideo, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, engine.YouTubeVideo{
			ID:      item.ID.VideoID,
			Title:   item.Snippet.Title,
			URL:     videoURL(item.ID.VideoID),
			Channel: item.Snippet.ChannelTitle,
			Snippet: engine.TruncateRunes(item.Snippet.Description, 200, "..."),
		})
	}
	return videos, nil
}

func (c *Client) searchResultsPage(ctx context.Context, query string, limit int) ([]engine.YouTubeVideo, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("sp", ytCaptionedFilter)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResultsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, networkError(stageSearch, err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLanguage)

	body, err := c.do(ctx, stageSearch, req, maxResultsBytes)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(body, limit)
}

// ParseSearchResults pulls up to limit videos out of a results page's ytInitialData.
func ParseSearchResults(page []byte, limit int) ([]engine.YouTubeVideo, error) {
	idx := strings.Index(string(page), ytInitialDataMarker)
	if idx < 0 {
		return nil, parseError(stageSearch, ErrNoResults, errors.New("ytInitialData not found"))
	}
	data := extractJSON(page[idx+len(ytInitialDataMarker):])
	if data == nil {
		return nil, parseError(stageSearch, ErrNoResults, errors.New("ytInitialData is not a complete object"))
	}
	return extractVideos(data, limit), nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// extractVideos walks ytInitialData depth-first for videoRenderer entries, in page order.
func extractVideos(data []byte, limit int) []engine.YouTubeVideo {
	videos := []engine.YouTubeVideo{}
	seen := make(map[string]bool)

	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(videos) >= limit {
			return
		}
		switch firstByte(v) {
		case '{':
			// Decode keys in document order so results keep the page's ranking.
			dec := json.NewDecoder(strings.NewReader(string(v)))
			if _, err := dec.Token(); err != nil {
				return
			}
			for dec.More() && len(videos) < limit {
				keyTok, err := dec.Token()
				if err != nil {
					return
				}
				var child json.RawMessage
				if err := dec.Decode(&child); err != nil {
					return
				}
				if keyTok == "videoRenderer" {
					if video, ok := parseRenderer(child); ok && !seen[video.ID] {
						seen[video.ID] = true
						videos = append(videos, video)
					}
					continue
				}
				walk(child)
			}
		case '[':
			var arr []json.RawMessage
			if err := json.Unmarshal(v, &arr); err != nil {
				return
			}
			for _, item := range arr {
				if len(videos) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return videos
}

func parseRenderer(raw json.RawMessage) (engine.YouTubeVideo, bool) {
	var vr ytVideoRenderer
	if err := json.Unmarshal(raw, &vr); err != nil || vr.VideoID == "" {
		return engine.YouTubeVideo{}, false
	}
	video := engine.YouTubeVideo{
		ID:      vr.VideoID,
		Title:   vr.Title.text(),
		URL:     videoURL(vr.VideoID),
		Channel: vr.OwnerText.text(),
	}
	if vr.LengthText != nil {
		video.Length = vr.LengthText.SimpleText
	}
	if vr.DescriptionSnippet != nil {
		video.Snippet = engine.TruncateRunes(vr.DescriptionSnippet.text(), 200, "...")
	}
	return video, true
}

func firstByte(v json.RawMessage) byte {
	for _, c := range v {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return c
	}
	return 0
}

func videoURL(id string) string {
	return ytWatchURL + "?v=" + id
}
