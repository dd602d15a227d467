package sources

import "regexp"

// videoIDPatterns is tried in order; the first capture wins.
// New URL shapes go at the end so existing precedence is kept.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:m\.)?youtube\.com/watch\?v=([\w-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([\w-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/v/([\w-]+)`),
	regexp.MustCompile(`youtube\.com/watch\?(?:[^#]*&)?v=([\w-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([\w-]+)`),
}

// ExtractVideoID pulls the video ID out of any supported YouTube URL shape.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) >= 2 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
