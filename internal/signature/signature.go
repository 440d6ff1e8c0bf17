// Package signature splits plain-text bodies into main content and a
// trailing signature block.
package signature

import "strings"

// delimiters is searched in priority order, not by position in the text:
// the first delimiter in this list that occurs anywhere wins, even when a
// later-listed delimiter would match earlier in the text.
var delimiters = []string{
	"--\n",
	"-- \n",
	"---\n",
	"Best regards",
	"Kind regards",
	"Regards,",
}

// Split returns the body content before the chosen delimiter and the
// signature from the delimiter onward, both trimmed. A delimiter is only
// accepted when the signature remainder is non-empty after trimming; when
// no delimiter yields one, the whole text is the content and sig is empty.
func Split(text string) (content, sig string) {
	for _, d := range delimiters {
		pos := strings.Index(text, d)
		if pos < 0 {
			continue
		}
		sig = strings.TrimSpace(text[pos:])
		if sig == "" {
			continue
		}
		return strings.TrimSpace(text[:pos]), sig
	}
	return text, ""
}
