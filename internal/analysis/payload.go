package analysis

import (
	"errors"
	"strings"
)

// ErrNoPayload is returned when nothing that looks like a JSON document
// remains after cleanup.
var ErrNoPayload = errors.New("no JSON payload in model response")

// ExtractJSONPayload strips the Markdown code fences models wrap JSON in
// despite instructions (```json ... ``` or plain ``` ... ```), then clamps the
// text to the outermost JSON object or array.
func ExtractJSONPayload(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrNoPayload
	}

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
		s = strings.TrimSpace(s)
	}

	// Keep only the outermost object or array in case the model added prose
	// around the JSON.
	start, end := -1, -1
	if i := strings.IndexAny(s, "{["); i != -1 {
		open := s[i]
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		if j := strings.LastIndexByte(s, close); j > i {
			start, end = i, j
		}
	}
	if start == -1 {
		return "", ErrNoPayload
	}

	return strings.TrimSpace(s[start : end+1]), nil
}
