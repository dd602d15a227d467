package sources

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// srv3 timed text is not guaranteed to be well-formed XML, so it is scanned
// with patterns instead of encoding/xml.
var (
	srv3ParagraphRe = regexp.MustCompile(`(?is)<p\s+t="([^"]*)"\s+d="([^"]*)"[^>]*?(?:/>|>(.*?)</p>)`)
	srv3SpanRe      = regexp.MustCompile(`(?is)<s(?:\s[^>]*)?>([^<]*)</s>`)
	fmtParamRe      = regexp.MustCompile(`[?&]fmt=`)
)

// &amp; is decoded before the rest so doubly escaped text such as
// "&amp;gt;&amp;gt;" comes out as ">>".
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
)

// ParseTimedText turns an srv3 document into segments sorted by start time.
// Paragraph-level timing is kept; per-word <s> timing is discarded.
func ParseTimedText(body string) ([]engine.TranscriptSegment, error) {
	var segs []engine.TranscriptSegment
	for _, m := range srv3ParagraphRe.FindAllStringSubmatch(body, -1) {
		startMs, err := strconv.Atoi(strings.TrimSpace(m[1]))
		if err != nil {
			continue
		}
		durMs, err := strconv.Atoi(strings.TrimSpace(m[2]))
		if err != nil || durMs <= 0 || startMs < 0 {
			continue
		}
		text := paragraphText(m[3])
		if text == "" {
			continue
		}
		segs = append(segs, engine.TranscriptSegment{
			Start:    float64(startMs) / 1000.0,
			Duration: float64(durMs) / 1000.0,
			Text:     text,
		})
	}
	if len(segs) == 0 {
		return nil, parseError(stageTimedText, ErrEmptyTranscript, nil)
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	return segs, nil
}

// paragraphText joins the <s> spans of one paragraph. Manual tracks carry plain
// text without spans; their inner markup is stripped instead.
func paragraphText(inner string) string {
	spans := srv3SpanRe.FindAllStringSubmatch(inner, -1)
	var raw string
	if len(spans) == 0 {
		raw = engine.CleanHTML(inner)
	} else {
		var sb strings.Builder
		for _, s := range spans {
			sb.WriteString(s[1])
		}
		raw = sb.String()
	}
	return engine.CollapseSpaces(unescapeEntities(raw))
}

func unescapeEntities(s string) string {
	return entityReplacer.Replace(strings.ReplaceAll(s, "&amp;", "&"))
}

// withSrv3 asks for the <p>/<s> dialect unless the track URL already picks a format.
func withSrv3(baseURL string) string {
	if fmtParamRe.MatchString(baseURL) {
		return baseURL
	}
	if strings.Contains(baseURL, "?") {
		return baseURL + "&fmt=srv3"
	}
	return baseURL + "?fmt=srv3"
}

// FetchTimedText downloads the caption document behind a track's baseUrl.
func (c *Client) FetchTimedText(ctx context.Context, baseURL string) (string, error) {
	engine.IncrTimedTextRequests()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, withSrv3(baseURL), nil)
	if err != nil {
		return "", networkError(stageTimedText, err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept-Language", acceptLanguage)

	body, err := c.do(ctx, stageTimedText, req, maxTimedTextBytes)
	if err != nil {
		return "", err
	}
	slog.Debug("youtube: timed text fetched", slog.Int("bytes", len(body)))
	return string(body), nil
}
