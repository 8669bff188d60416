package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateString cuts s to maxLen terminal cells, ending in "..." when cut.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// WrapText breaks text on spaces so no line exceeds width cells.
// A single word wider than width gets its own line.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := []string{}
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

// JoinOr joins items with sep, or returns fallback when there are none.
func JoinOr(items []string, sep, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, sep)
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
