package export

import (
	"strings"
)

const maxFilenameLength = 200

// Characters Windows refuses in filenames.
const reservedChars = `<>:"/\|?*`

// SanitizeFilename turns a user-supplied video title into a base name
// that is safe on every OS: control characters and reserved characters
// are stripped, whitespace runs collapse to a single space, leading and
// trailing spaces and dots are trimmed, and the result is capped at 200
// characters. An empty result becomes "untitled".
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(reservedChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	cleaned = strings.Trim(cleaned, " .")

	if cleaned == "" {
		return "untitled"
	}

	if runes := []rune(cleaned); len(runes) > maxFilenameLength {
		cleaned = string(runes[:maxFilenameLength])
	}
	return cleaned
}
