// Package llm provides prompt-in, text-out access to the configured chat
// model providers, plus helpers for pulling structured data out of
// best-effort model responses.
package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable signals that no generation could be produced: missing
// configuration, transport failure, or an unusable response. AI-backed
// strategies report it instead of propagating provider errors so callers can
// fall back deterministically.
var ErrUnavailable = errors.New("generator unavailable")

// TextGenerator is one blocking call to an AI backend. Implementations are
// best-effort text producers; callers own all parsing and validation.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ExtractJSONObject returns the substring between the first '{' and the last
// '}' of raw, tolerating code fences and leading/trailing commentary around
// the object. Returns ErrUnavailable when no object is present.
func ExtractJSONObject(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnavailable
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", ErrUnavailable
	}
	return raw[start : end+1], nil
}

// TruncateRunes bounds s to at most limit runes. Resume snippets are bounded
// this way before they are embedded in prompts.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
