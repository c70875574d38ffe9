package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims surrounding whitespace, strips control characters,
// and truncates to maxLen bytes. A maxLen of 0 means no cap.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = strings.TrimSpace(trimmed[:maxLen])
	}
	return trimmed
}
