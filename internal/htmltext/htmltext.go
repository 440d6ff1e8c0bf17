// Package htmltext converts HTML payloads into plain, whitespace-normalized
// text. It is a single-pass scanner, not a DOM parser: tags are dropped,
// script and style content is suppressed, block-level closers become
// newlines, and a fixed set of named entities is decoded.
package htmltext

import "strings"

// entityReplacements are applied sequentially in this order. Sequential
// replacement means "&amp;lt;" decodes through "&lt;" to "<".
var entityReplacements = [...][2]string{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// Strip extracts the text content of an HTML string. The scan operates on
// Unicode scalar values so multi-byte content never splits.
func Strip(html string) string {
	runes := []rune(html)
	var out strings.Builder
	out.Grow(len(html))

	inTag := false
	inScript := false
	inStyle := false
	tagStart := 0

	for i := 0; i < len(runes); i++ {
		switch {
		case !inTag && runes[i] == '<':
			tagStart = i
			switch {
			case hasFoldPrefix(runes[i:], "<script"):
				inScript = true
			case hasFoldPrefix(runes[i:], "<style"):
				inStyle = true
			case hasFoldPrefix(runes[i:], "</script"):
				inScript = false
			case hasFoldPrefix(runes[i:], "</style"):
				inStyle = false
			}
			inTag = true

		case inTag && runes[i] == '>':
			inTag = false
			tag := strings.ToLower(string(runes[tagStart+1 : i]))
			if strings.HasPrefix(tag, "br") ||
				strings.HasPrefix(tag, "/p") ||
				strings.HasPrefix(tag, "/div") ||
				strings.HasPrefix(tag, "/li") ||
				strings.HasPrefix(tag, "/h") {
				out.WriteByte('\n')
			}

		case !inTag && !inScript && !inStyle:
			out.WriteRune(runes[i])
		}
	}

	text := out.String()
	for _, e := range entityReplacements {
		text = strings.ReplaceAll(text, e[0], e[1])
	}

	// The only whitespace collapsing: trim lines, drop the empty ones.
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// hasFoldPrefix reports whether runes begins with the ASCII-lowercase
// prefix, ignoring case.
func hasFoldPrefix(runes []rune, prefix string) bool {
	if len(runes) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		r := runes[i]
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r != rune(prefix[i]) {
			return false
		}
	}
	return true
}
