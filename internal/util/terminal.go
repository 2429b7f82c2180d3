package util

import "fmt"

// MakeHyperlink wraps displayText in an OSC 8 escape sequence so terminals
// that support it (iTerm2, Konsole, GNOME Terminal, Windows Terminal, ...)
// render a clickable link without showing the raw URL.
func MakeHyperlink(url, displayText string) string {
	// BEL-terminated form for wider terminal compatibility than ST
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, displayText)
}

// TruncateText truncates s to maxLen runes, appending "…" if truncated.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
