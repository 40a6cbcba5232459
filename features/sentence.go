package features

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sentences splits text at terminal punctuation (. ! ?) followed by
// whitespace or the end of the text. Closing quotes and brackets stay with
// the sentence they end.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		end := i
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !strings.ContainsRune(`.!?"')]”’`, next) {
				break
			}
			end += n
		}
		if end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(next) {
				i = end
				continue
			}
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start, i = end, end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
