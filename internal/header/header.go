// Package header models decoded message headers and the fields derived
// from them.
package header

import "strings"

// Field is one decoded header in original message order. Duplicate names
// are preserved.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Priority is the message priority derived from the X-Priority header. The
// zero value means the header was absent.
type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityNormal  Priority = "normal"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

// ParsePriority maps an X-Priority value to a Priority. Anything outside
// the 1..5 convention is Normal.
func ParsePriority(v string) Priority {
	switch strings.TrimSpace(v) {
	case "1":
		return PriorityHighest
	case "2":
		return PriorityHigh
	case "4":
		return PriorityLow
	case "5":
		return PriorityLowest
	default:
		return PriorityNormal
	}
}

// AuthStatus is the outcome of one email authentication mechanism.
type AuthStatus string

const (
	AuthPass    AuthStatus = "pass"
	AuthFail    AuthStatus = "fail"
	AuthNeutral AuthStatus = "neutral"
	AuthNone    AuthStatus = "none"
)

// AuthResults summarizes SPF, DKIM, and DMARC outcomes scraped from
// Authentication-Results headers.
type AuthResults struct {
	SPF   AuthStatus `json:"spf"`
	DKIM  AuthStatus `json:"dkim"`
	DMARC AuthStatus `json:"dmarc"`
}

// Headers is the full ordered header list plus the commonly consulted
// fields pre-extracted. Derived fields take the first occurrence of their
// source header.
type Headers struct {
	All             []Field     `json:"all"`
	ContentType     string      `json:"content_type,omitempty"`
	Mailer          string      `json:"mailer,omitempty"`
	Priority        Priority    `json:"priority,omitempty"`
	ListUnsubscribe string      `json:"list_unsubscribe,omitempty"`
	Authentication  AuthResults `json:"authentication"`
	Custom          []Field     `json:"custom"`
}

// New builds Headers from an ordered field list, deriving the well-known
// fields in one pass.
func New(all []Field) Headers {
	h := Headers{
		All: all,
		Authentication: AuthResults{
			SPF:   AuthNone,
			DKIM:  AuthNone,
			DMARC: AuthNone,
		},
	}

	for _, f := range all {
		name := strings.ToLower(f.Name)
		switch name {
		case "content-type":
			if h.ContentType == "" {
				h.ContentType = f.Value
			}
		case "x-mailer", "user-agent":
			if h.Mailer == "" {
				h.Mailer = f.Value
			}
		case "x-priority":
			if h.Priority == "" {
				h.Priority = ParsePriority(f.Value)
			}
		case "list-unsubscribe":
			if h.ListUnsubscribe == "" {
				h.ListUnsubscribe = f.Value
			}
		case "authentication-results":
			h.mergeAuthResults(f.Value)
		}
		if strings.HasPrefix(name, "x-") {
			h.Custom = append(h.Custom, f)
		}
	}

	return h
}

// Get returns the first value of the named header, case-insensitively. The
// second result reports whether the header was present.
func (h *Headers) Get(name string) (string, bool) {
	for _, f := range h.All {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// mergeAuthResults scrapes mechanism=status tokens out of one
// Authentication-Results value. Every header that mentions a mechanism
// overwrites it, so with duplicates the last match wins.
func (h *Headers) mergeAuthResults(value string) {
	lower := strings.ToLower(value)
	if s := scrapeStatus(lower, "spf"); s != AuthNone {
		h.Authentication.SPF = s
	}
	if s := scrapeStatus(lower, "dkim"); s != AuthNone {
		h.Authentication.DKIM = s
	}
	if s := scrapeStatus(lower, "dmarc"); s != AuthNone {
		h.Authentication.DMARC = s
	}
}

func scrapeStatus(lower, mechanism string) AuthStatus {
	switch {
	case strings.Contains(lower, mechanism+"=pass"):
		return AuthPass
	case strings.Contains(lower, mechanism+"=fail"):
		return AuthFail
	case strings.Contains(lower, mechanism+"=neutral"):
		return AuthNeutral
	default:
		return AuthNone
	}
}
