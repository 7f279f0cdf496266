// Package extract recovers structured JSON from free-form model output.
//
// Models asked for JSON routinely wrap it in markdown code fences or pad it
// with prose. Every stage of the pipeline funnels raw completion text through
// this package, so a malformed reply degrades to a caller-supplied fallback
// instead of an error.
package extract

import (
	"encoding/json"
	"strings"
)

// Object parses a JSON object of type T out of raw model text.
//
// The recovery ladder:
//  1. Strip a fenced code block wrapper, if any, keeping the inner content.
//  2. Trim surrounding whitespace.
//  3. Attempt a strict parse.
//  4. On failure, parse the substring between the first '{' and the last '}'.
//  5. On any remaining failure, return fallback unchanged.
//
// Object never returns an error; the result is always a value of type T.
func Object[T any](raw string, fallback T) T {
	text := strings.TrimSpace(StripFences(raw))
	if text == "" {
		return fallback
	}

	var out T
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return out
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start >= end {
		return fallback
	}

	var retry T
	if err := json.Unmarshal([]byte(text[start:end+1]), &retry); err == nil {
		return retry
	}
	return fallback
}

// StripFences removes a markdown code fence wrapper from text, returning the
// inner content. Text without a fence is returned trimmed but otherwise
// unchanged. A language tag on the opening fence (```json) is discarded.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop the language tag, if present, up to the first newline.
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
