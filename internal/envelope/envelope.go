// Package envelope decodes raw RFC 5322 messages into an ordered header
// list, the best-effort text and HTML payloads, and an attachment
// inventory. It tolerates malformed MIME aggressively: a bad part is
// skipped, never fatal.
package envelope

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/mailsift/mailsift/internal/header"
)

// maxHeaderValueLen caps one decoded header value. Oversized values are
// truncated, not rejected.
const maxHeaderValueLen = 1000

// maxMultipartDepth bounds nested multipart recursion.
const maxMultipartDepth = 10

// Attachment records one attachment-disposition part. The payload itself
// is not retained.
type Attachment struct {
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}

// Envelope is the structural decode of one raw message.
type Envelope struct {
	Headers     []header.Field `json:"headers"`
	Text        string         `json:"text,omitempty"`
	HTML        string         `json:"html,omitempty"`
	Attachments []Attachment   `json:"attachments"`
	SizeBytes   int            `json:"size_bytes"`
}

// Decode parses a raw message. It fails only on an empty input or an
// unreadable header block; body-level problems degrade to empty payloads.
func Decode(raw []byte) (*Envelope, error) {
	if len(raw) == 0 {
		return nil, errors.New("empty message")
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		Headers:   decodeHeaderBlock(string(raw)),
		SizeBytes: len(raw),
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
		params = nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary != "" {
			env.walkMultipart(msg.Body, boundary, 0)
		}
		return env, nil
	}

	payload, err := io.ReadAll(decodeTransfer(msg.Body, msg.Header.Get("Content-Transfer-Encoding")))
	if err != nil {
		return env, nil
	}
	text := toUTF8(payload, params["charset"])
	if mediaType == "text/html" {
		env.HTML = text
	} else {
		env.Text = text
	}
	return env, nil
}

// walkMultipart scans one multipart body. The first non-empty text/plain
// part and the first text/html part win; attachment-disposition parts are
// inventoried and skipped.
func (env *Envelope) walkMultipart(r io.Reader, boundary string, depth int) {
	if depth >= maxMultipartDepth {
		return
	}

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			return
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			mediaType = "text/plain"
			params = nil
		}

		if isAttachment(part) {
			payload, _ := io.ReadAll(part)
			env.Attachments = append(env.Attachments, Attachment{
				Filename:    part.FileName(),
				ContentType: mediaType,
				SizeBytes:   len(payload),
			})
			continue
		}

		if strings.HasPrefix(mediaType, "multipart/") {
			if b := params["boundary"]; b != "" {
				env.walkMultipart(part, b, depth+1)
			}
			continue
		}

		// multipart.Part already undoes quoted-printable and base64.
		payload, err := io.ReadAll(part)
		if err != nil {
			continue
		}
		text := toUTF8(payload, params["charset"])

		switch mediaType {
		case "text/html":
			if env.HTML == "" {
				env.HTML = text
			}
		default:
			if env.Text == "" && strings.TrimSpace(text) != "" {
				env.Text = text
			}
		}
	}
}

func isAttachment(part *multipart.Part) bool {
	disposition, _, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	return disposition == "attachment"
}

// decodeTransfer wraps the body reader according to the
// Content-Transfer-Encoding. Unknown encodings pass through unchanged.
func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, &whitespaceStripper{r: r})
	default:
		return r
	}
}

// whitespaceStripper removes line breaks and spaces so folded base64
// bodies decode cleanly.
type whitespaceStripper struct {
	r io.Reader
}

func (w *whitespaceStripper) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	kept := 0
	for _, b := range p[:n] {
		switch b {
		case '\r', '\n', ' ', '\t':
		default:
			p[kept] = b
			kept++
		}
	}
	return kept, err
}

// decodeHeaderBlock re-scans the raw header block to preserve original
// order and duplicates, which net/mail's map loses. Continuation lines are
// unfolded with a single space and encoded words are decoded.
func decodeHeaderBlock(raw string) []header.Field {
	block := raw
	if i := strings.Index(raw, "\r\n\r\n"); i >= 0 {
		block = raw[:i]
	} else if i := strings.Index(raw, "\n\n"); i >= 0 {
		block = raw[:i]
	}

	dec := &mime.WordDecoder{}
	var fields []header.Field
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			if len(fields) > 0 {
				fields[len(fields)-1].Value += " " + strings.TrimSpace(line)
			}
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields = append(fields, header.Field{
			Name:  strings.ToLower(strings.TrimSpace(name)),
			Value: strings.TrimSpace(value),
		})
	}

	for i := range fields {
		if decoded, err := dec.DecodeHeader(fields[i].Value); err == nil {
			fields[i].Value = decoded
		}
		if len(fields[i].Value) > maxHeaderValueLen {
			fields[i].Value = fields[i].Value[:maxHeaderValueLen]
		}
	}
	return fields
}

// toUTF8 converts legacy single-byte charsets to UTF-8 and normalizes
// CRLF line endings. Anything not in the legacy set is assumed UTF-8
// already.
func toUTF8(payload []byte, charset string) string {
	var text string
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso-8859-15", "windows-1252", "latin1":
		var b strings.Builder
		b.Grow(len(payload))
		for _, c := range payload {
			b.WriteRune(rune(c))
		}
		text = b.String()
	default:
		text = string(payload)
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}
