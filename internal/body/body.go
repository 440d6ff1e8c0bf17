// Package body assembles the message body view: the raw text and HTML
// payloads, the HTML-derived fallback text, signature separation, and size
// statistics.
package body

import (
	"strings"

	"github.com/mailsift/mailsift/internal/htmltext"
	"github.com/mailsift/mailsift/internal/signature"
)

// Body is the processed message body. Statistics and the signature split
// are computed over BestText at construction time.
type Body struct {
	Text           string `json:"text,omitempty"`
	HTML           string `json:"html,omitempty"`
	TextFromHTML   string `json:"text_from_html,omitempty"`
	Content        string `json:"content"`
	Signature      string `json:"signature,omitempty"`
	HasAttachments bool   `json:"has_attachments"`
	WordCount      int    `json:"word_count"`
	CharCount      int    `json:"char_count"`
	LineCount      int    `json:"line_count"`
}

// Build constructs a Body from the decoded payloads. TextFromHTML is only
// derived when no plain-text part exists.
func Build(text, html string, hasAttachments bool) Body {
	b := Body{
		Text:           text,
		HTML:           html,
		HasAttachments: hasAttachments,
	}

	if b.Text == "" && b.HTML != "" {
		b.TextFromHTML = htmltext.Strip(b.HTML)
	}

	best := b.BestText()
	b.Content, b.Signature = signature.Split(best)
	b.WordCount = len(strings.Fields(best))
	b.CharCount = len(best)
	b.LineCount = lineCount(best)
	return b
}

// BestText prefers the plain-text payload and falls back to the
// HTML-derived text.
func (b *Body) BestText() string {
	if b.Text != "" {
		return b.Text
	}
	return b.TextFromHTML
}

// IsEmpty reports whether the message carried no usable body at all.
func (b *Body) IsEmpty() bool {
	return strings.TrimSpace(b.Text) == "" && b.HTML == ""
}

// lineCount counts newline-terminated lines plus a final unterminated one.
func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
