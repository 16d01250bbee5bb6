package summarizer

import (
	"strings"
	"unicode"
)

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitSentences breaks text at whitespace that follows '.', '!' or '?'.
// Empty pieces are dropped and the rest are trimmed.
func splitSentences(text string) []string {
	var (
		out   []string
		start int
		prev  rune
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if unicode.IsSpace(r) && (prev == '.' || prev == '!' || prev == '?') {
			if s := strings.TrimSpace(string(runes[start:i])); s != "" {
				out = append(out, s)
			}
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			start = i
			i--
			prev = ' '
			continue
		}
		prev = r
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
