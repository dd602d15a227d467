package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrLLMDisabled is returned when no LLM client is configured.
var ErrLLMDisabled = errors.New("llm client not configured")

// maxExplainRunes caps the sentence sent to the LLM.
const maxExplainRunes = 600

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExplainSentence asks the LLM to explain one transcript sentence to an English learner.
func ExplainSentence(ctx context.Context, sentence string) (string, error) {
	sentence = CollapseSpaces(sentence)
	if sentence == "" {
		return "", errors.New("explain: empty sentence")
	}
	if cfg.LLMClient == nil {
		return "", ErrLLMDisabled
	}
	key := CacheKey("explain", cfg.LLMModel, sentence)
	if cached, ok := CacheGet(ctx, key); ok {
		return cached, nil
	}
	prompt := fmt.Sprintf(explainSentencePrompt, TruncateRunes(sentence, maxExplainRunes, "..."))

	metrics.LLMCalls.Add(1)
	raw, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0.3),
		llm.WithChatMaxTokens(700),
	)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("explain: %w", err)
	}
	out := stripFences(raw)
	if out != "" {
		CacheSet(ctx, key, out)
	}
	return out, nil
}
