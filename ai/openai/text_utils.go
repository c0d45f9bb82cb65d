package openai

import "strings"

// scrubString removes quote characters that could break out of a prompt and
// trims whitespace. Punctuation that carries meaning for classification
// ("under $100?", "no-fee") is kept.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune("\"`", r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
