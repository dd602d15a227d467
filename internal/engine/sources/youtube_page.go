package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// apiKeyPatterns is tried in order; the first non-blank capture wins.
// The watch page markup is undocumented, so each variant seen in the wild
// gets its own entry instead of one clever pattern.
var apiKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"innertubeApiKey"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`innertubeApiKey"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`),
}

// Watch page classes reported when no API key is found.
const (
	pageConsent = "consent"
	pageCaptcha = "captcha"
	pageUnknown = "unknown"
)

// extractAPIKey scans a watch page with apiKeyPatterns.
func extractAPIKey(page []byte) (string, bool) {
	for _, re := range apiKeyPatterns {
		if m := re.FindSubmatch(page); len(m) >= 2 {
			if key := strings.TrimSpace(string(m[1])); key != "" {
				return key, true
			}
		}
	}
	return "", false
}

// diagnosePage classifies a watch page that carried no API key.
func diagnosePage(page []byte) string {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return pageUnknown
	}
	doc := goquery.NewDocumentFromNode(root)
	if doc.Find(`form[action*="consent.youtube.com"]`).Length() > 0 {
		return pageConsent
	}
	if doc.Find(".g-recaptcha").Length() > 0 {
		return pageCaptcha
	}
	return pageUnknown
}

// FetchAPIKey downloads the watch page for videoID and extracts the Innertube API key.
func (c *Client) FetchAPIKey(ctx context.Context, videoID string) (string, error) {
	engine.IncrBootstrapRequests()

	page, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", err
	}
	key, ok := extractAPIKey(page)
	if !ok {
		class := diagnosePage(page)
		slog.Warn("youtube: no innertube api key in watch page",
			slog.String("id", videoID), slog.String("page", class), slog.Int("bytes", len(page)))
		return "", parseError(stageBootstrap, ErrMissingAPIKey, fmt.Errorf("watch page class %q", class))
	}
	slog.Debug("youtube: api key extracted", slog.String("id", videoID))
	return key, nil
}

func (c *Client) watchPageURL(videoID string) string {
	return c.WatchURL + "?v=" + url.QueryEscape(videoID)
}

// fetchWatchPage issues the single bootstrap GET. The upstream varies its markup
// by these headers, so they are always sent.
func (c *Client) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	target := c.watchPageURL(videoID)
	if c.Browser != nil {
		return c.fetchWatchPageStealth(ctx, target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, networkError(stageBootstrap, err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLanguage)
	return c.do(ctx, stageBootstrap, req, maxWatchPageBytes)
}

// fetchWatchPageStealth fetches the watch page with a Chrome TLS fingerprint.
// BrowserClient takes no context, so ctx is checked on both sides of the call.
func (c *Client) fetchWatchPageStealth(ctx context.Context, target string) ([]byte, error) {
	if err := engine.WaitYouTube(ctx); err != nil {
		return nil, networkError(stageBootstrap, err)
	}
	headers := engine.ChromeHeaders()
	headers["accept"] = acceptHTML
	headers["accept-language"] = acceptLanguage

	data, _, status, err := c.Browser.Do(http.MethodGet, target, headers, nil)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, networkError(stageBootstrap, ctxErr)
	}
	if err != nil {
		return nil, networkError(stageBootstrap, err)
	}
	if status < 200 || status >= 300 {
		return nil, networkError(stageBootstrap, fmt.Errorf("HTTP %d", status))
	}
	return data, nil
}
