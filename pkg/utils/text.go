package utils

import "unicode/utf8"

const (
	// TruncateSuffix marks text that was cut to fit a length limit.
	TruncateSuffix = "... [truncated]"
)

// TruncateText shortens text to at most maxLength runes, appending
// TruncateSuffix when anything was removed. API error bodies can be
// arbitrarily large; result reasons keep only their head.
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	availableLength := maxLength - utf8.RuneCountInString(TruncateSuffix)
	if availableLength <= 0 {
		runes := []rune(text)
		return string(runes[:maxLength])
	}

	runes := []rune(text)
	return string(runes[:availableLength]) + TruncateSuffix
}
