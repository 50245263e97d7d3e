// Package videoid normalizes free-form user input (watch URLs, short
// links, bare ids) into canonical 11-character YouTube video ids.
package videoid

import (
	"strings"
)

// Length of a canonical YouTube video id.
const Length = 11

const (
	watchMarker = "youtube.com/watch?v="
	shortMarker = "youtu.be/"
)

// Resolve extracts a video id from a single input line. The rules are
// checked in order: long-form watch URL, short link, bare 11-char id.
// Anything else is invalid and the caller must skip or report the line.
func Resolve(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	if i := strings.Index(raw, watchMarker); i >= 0 {
		id := raw[i+len(watchMarker):]
		if j := strings.IndexByte(id, '&'); j >= 0 {
			id = id[:j]
		}
		return id, id != ""
	}

	if i := strings.Index(raw, shortMarker); i >= 0 {
		id := raw[i+len(shortMarker):]
		if j := strings.IndexByte(id, '?'); j >= 0 {
			id = id[:j]
		}
		return id, id != ""
	}

	if len(raw) == Length {
		return raw, true
	}

	return "", false
}

// ResolveLines applies Resolve to every non-empty, trimmed line of
// input, preserving input order. Unresolved lines are dropped silently;
// submitted reports how many non-empty lines were considered so the
// caller can surface the resolved-vs-submitted count.
func ResolveLines(input string) (ids []string, submitted int) {
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		submitted++
		if id, ok := Resolve(line); ok {
			ids = append(ids, id)
		}
	}
	return ids, submitted
}
