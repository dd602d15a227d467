package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// YouTube Innertube API: constants, types, and low-level HTTP primitives.
// Stage logic lives in youtube_page.go, youtube_tracks.go and youtube_timedtext.go.

const (
	ytWatchURL     = "https://www.youtube.com/watch"
	ytInnertubeURL = "https://www.youtube.com/youtubei/v1/player"
	ytResultsURL   = "https://www.youtube.com/results"
	ytDataAPIBase  = "https://www.googleapis.com/youtube/v3"

	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"

	maxWatchPageBytes = 6 * 1024 * 1024
	maxCatalogBytes   = 3 * 1024 * 1024
	maxTimedTextBytes = 4 * 1024 * 1024
	maxResultsBytes   = 4 * 1024 * 1024
)

// Client runs the acquisition pipeline against youtube.com (or a stand-in).
// Requests carry no retries: every failure aborts the run.
type Client struct {
	HTTP           *http.Client
	Browser        *engine.BrowserClient // optional watch page transport
	WatchURL       string
	PlayerURL      string
	AndroidVersion string
	UserAgent      func() string

	// Video search. DataAPIKey empty = scrape the results page.
	ResultsURL string
	DataAPIURL string
	DataAPIKey string
}

// NewClient builds a Client from the engine configuration.
func NewClient() *Client {
	version := engine.Cfg.AndroidClientVersion
	if version == "" {
		version = engine.DefaultAndroidClientVersion
	}
	return &Client{
		HTTP:           engine.HTTPClient(),
		Browser:        engine.Cfg.BrowserClient,
		WatchURL:       ytWatchURL,
		PlayerURL:      ytInnertubeURL,
		AndroidVersion: version,
		UserAgent:      engine.RandomUserAgent,
		ResultsURL:     ytResultsURL,
		DataAPIURL:     ytDataAPIBase,
		DataAPIKey:     engine.Cfg.YouTubeAPIKey,
	}
}

func (c *Client) userAgent() string {
	if c.UserAgent != nil {
		if ua := c.UserAgent(); ua != "" {
			return ua
		}
	}
	return engine.UserAgentChrome
}

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	Context innertubeCtx `json:"context"`
	VideoID string       `json:"videoId"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

// do sends req after the rate limiter admits it and returns at most limit body bytes.
// Any transport error or non-2xx status is a NetworkError for stage.
func (c *Client) do(ctx context.Context, stage string, req *http.Request, limit int64) ([]byte, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, networkError(stage, err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, networkError(stage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, networkError(stage, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, networkError(stage, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// FetchCatalog POSTs the ANDROID client identity to /player and returns the raw
// player response, which carries the caption track catalog.
func (c *Client) FetchCatalog(ctx context.Context, videoID, apiKey string) ([]byte, error) {
	engine.IncrCatalogRequests()

	reqBody, err := json.Marshal(innertubeReq{
		Context: innertubeCtx{Client: innertubeClient{
			ClientName:    "ANDROID",
			ClientVersion: c.AndroidVersion,
		}},
		VideoID: videoID,
	})
	if err != nil {
		return nil, networkError(stageCatalog, err)
	}

	endpoint := c.PlayerURL + "?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, networkError(stageCatalog, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("User-Agent", c.userAgent())

	body, err := c.do(ctx, stageCatalog, req, maxCatalogBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, networkError(stageCatalog, errors.New("empty response body"))
	}
	slog.Debug("youtube: catalog fetched", slog.String("id", videoID), slog.Int("bytes", len(body)))
	return body, nil
}
