package reading

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_listen/internal/engine"
)

// sentenceEndRe matches a run of terminal punctuation that ends a sentence:
// followed by whitespace or the end of the text. "3.14" and "e.g.x" stay whole.
var sentenceEndRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

const wordsPerMinute = 150

// SplitSentences cleans whitespace and splits text into sentences. Each
// sentence keeps the first character of its terminating punctuation run;
// a trailing unterminated sentence gets a period.
func SplitSentences(text string) []string {
	text = engine.CollapseSpaces(text)
	if text == "" {
		return nil
	}

	var out []string
	prev := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		part := strings.TrimSpace(text[prev:loc[0]])
		prev = loc[1]
		if part == "" {
			continue
		}
		out = append(out, part+text[loc[0]:loc[0]+1])
	}
	if rest := strings.TrimSpace(text[prev:]); rest != "" {
		out = append(out, rest+".")
	}
	return out
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateDuration renders the read-aloud time of wordCount words at 150 wpm.
// Anything shorter than a minute still reports one minute.
func EstimateDuration(wordCount int) string {
	minutes := wordCount / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	seconds := (wordCount % wordsPerMinute) * 60 / wordsPerMinute
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
