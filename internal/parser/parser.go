// Package parser turns decoded envelopes into fully analyzed Email
// values. It orchestrates the pipeline: headers, addresses, subject
// normalization, body assembly, entity extraction, and heuristics.
package parser

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/mailsift/mailsift/internal/address"
	"github.com/mailsift/mailsift/internal/analyze"
	"github.com/mailsift/mailsift/internal/body"
	"github.com/mailsift/mailsift/internal/envelope"
	"github.com/mailsift/mailsift/internal/extract"
	"github.com/mailsift/mailsift/internal/header"
	"github.com/mailsift/mailsift/internal/subject"
)

// MessageID is a Message-ID header value, synthetic when the header was
// absent.
type MessageID string

// SyntheticMessageID builds a stable placeholder for messages without a
// Message-ID header.
func SyntheticMessageID(uid uint32) MessageID {
	return MessageID(fmt.Sprintf("<synthetic-%d@local>", uid))
}

// ThreadInfo captures how a message sits inside a conversation.
type ThreadInfo struct {
	InReplyTo string `json:"in_reply_to,omitempty"`
	// References lists the referenced Message-IDs oldest first.
	References []string `json:"references"`
	IsReply    bool     `json:"is_reply"`
	// ThreadPosition is 1-based for replies and 0 for thread starters.
	ThreadPosition int `json:"thread_position"`
}

// Email is the complete parsed and analyzed message.
type Email struct {
	UID         uint32                `json:"uid"`
	MessageID   MessageID             `json:"message_id"`
	From        address.Address       `json:"from"`
	To          []address.Address     `json:"to"`
	CC          []address.Address     `json:"cc"`
	BCC         []address.Address     `json:"bcc"`
	ReplyTo     *address.Address      `json:"reply_to,omitempty"`
	Subject     subject.Subject       `json:"subject"`
	Date        time.Time             `json:"date"`
	Headers     header.Headers        `json:"headers"`
	Body        body.Body             `json:"body"`
	Entities    extract.Entities      `json:"entities"`
	Metadata    analyze.Metadata      `json:"metadata"`
	Thread      ThreadInfo            `json:"thread"`
	Attachments []envelope.Attachment `json:"attachments"`
	SizeBytes   int                   `json:"size_bytes"`
}

// Parse runs the full pipeline over a decoded envelope. The only fatal
// conditions are a missing or unparseable From header; every other
// absence degrades to a placeholder.
func Parse(uid uint32, env *envelope.Envelope) (*Email, error) {
	hdrs := header.New(env.Headers)

	fromRaw, ok := hdrs.Get("From")
	if !ok || strings.TrimSpace(fromRaw) == "" {
		return nil, newMissingHeaderError("From")
	}
	from := address.Parse(fromRaw)
	if from == nil {
		return nil, newInvalidHeaderError("From", fromRaw)
	}

	email := &Email{
		UID:       uid,
		From:      *from,
		Headers:   hdrs,
		SizeBytes: env.SizeBytes,
	}

	// Substitution happens only when the header is absent; a present but
	// empty value is kept as-is.
	if v, ok := hdrs.Get("Message-ID"); ok {
		email.MessageID = MessageID(strings.TrimSpace(v))
	} else {
		email.MessageID = SyntheticMessageID(uid)
	}

	if v, ok := hdrs.Get("To"); ok {
		email.To = address.ParseList(v)
	}
	if v, ok := hdrs.Get("Cc"); ok {
		email.CC = address.ParseList(v)
	}
	if v, ok := hdrs.Get("Bcc"); ok {
		email.BCC = address.ParseList(v)
	}
	if v, ok := hdrs.Get("Reply-To"); ok {
		email.ReplyTo = address.Parse(v)
	}

	if v, ok := hdrs.Get("Subject"); ok {
		email.Subject = subject.Parse(v)
	} else {
		email.Subject = subject.Parse("(no subject)")
	}

	email.Date = parseDate(hdrs)

	hasAttachments := len(env.Attachments) > 0
	email.Body = body.Build(env.Text, env.HTML, hasAttachments)
	email.Attachments = env.Attachments

	email.Entities = extract.Extract(email.Body.BestText())
	email.Thread = threadInfo(hdrs, email.Subject)
	email.Metadata = analyze.Analyze(&email.From, email.Subject, hdrs, email.Entities, email.Body.BestText())

	return email, nil
}

// ParseBytes decodes a raw message and parses it in one step.
func ParseBytes(uid uint32, raw []byte) (*Email, error) {
	env, err := envelope.Decode(raw)
	if err != nil {
		return nil, newStructureError(err)
	}
	return Parse(uid, env)
}

// parseDate falls back to the current UTC time when the Date header is
// absent or malformed.
func parseDate(hdrs header.Headers) time.Time {
	if v, ok := hdrs.Get("Date"); ok {
		if t, err := mail.ParseDate(v); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func threadInfo(hdrs header.Headers, subj subject.Subject) ThreadInfo {
	info := ThreadInfo{}
	if v, ok := hdrs.Get("In-Reply-To"); ok {
		info.InReplyTo = strings.TrimSpace(v)
	}
	if v, ok := hdrs.Get("References"); ok {
		info.References = strings.Fields(v)
	}
	info.IsReply = info.InReplyTo != "" || subj.ReplyDepth > 0
	if info.IsReply {
		info.ThreadPosition = len(info.References) + 1
	}
	return info
}
