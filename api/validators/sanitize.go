package validators

import (
	"strings"
	"unicode"
)

// SanitizeString drops control characters, trims surrounding space and caps the result at
// maxLen bytes; maxLen <= 0 disables the cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen]
	}
	return cleaned
}
