package layout

import (
	"regexp"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// TruncateText shortens text to maxWidth runes, ending in the ellipsis.
// Returns the result and whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}
	if utf8.RuneCountInString(text) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}
	return string([]rune(text)[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// TruncateWithPrefix truncates text so that prefix+text fits maxWidth,
// keeping the prefix intact when there is room for it.
// Example: TruncateWithPrefix("Development", 9, "● ", cfg) -> "● Deve..."
func TruncateWithPrefix(text string, maxWidth int, prefix string, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	prefixLen := utf8.RuneCountInString(prefix)
	if prefixLen+utf8.RuneCountInString(cfg.Ellipsis) >= maxWidth {
		return TruncateText(prefix+text, maxWidth, cfg)
	}

	body, truncated := TruncateText(text, maxWidth-prefixLen, cfg)
	return prefix + body, truncated
}
