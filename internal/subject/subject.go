// Package subject normalizes subject lines by stripping reply and forward
// prefixes while counting thread depth.
package subject

import (
	"strconv"
	"strings"
	"unicode"
)

// Subject carries a subject line together with its normalized form.
type Subject struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
	ReplyDepth int    `json:"reply_depth"`
	IsForward  bool   `json:"is_forward"`
	Language   string `json:"language,omitempty"`
}

// Parse strips reply prefixes ("Re:", "Re[n]:") from the front of the
// subject, accumulating reply depth, then checks once for a forward prefix
// ("Fwd:", "Fw:"). All matching is case-insensitive.
func Parse(s string) Subject {
	normalized := s
	depth := 0
	forward := false

	for {
		lower := strings.ToLower(normalized)
		if strings.HasPrefix(lower, "re:") {
			normalized = trimLeadingSpace(normalized[3:])
			depth++
			continue
		}
		if strings.HasPrefix(lower, "re[") {
			// Re[2]: style. Without a closing "]:" this is not a prefix.
			end := strings.Index(normalized, "]:")
			if end < 0 {
				break
			}
			if n, err := strconv.ParseUint(normalized[3:end], 10, 32); err == nil {
				depth += int(n)
			}
			normalized = trimLeadingSpace(normalized[end+2:])
			continue
		}
		break
	}

	lower := strings.ToLower(normalized)
	if strings.HasPrefix(lower, "fwd:") || strings.HasPrefix(lower, "fw:") {
		forward = true
		normalized = trimLeadingSpace(strings.TrimLeft(normalized, "fFwWdD:"))
	}

	return Subject{
		Original:   s,
		Normalized: normalized,
		ReplyDepth: depth,
		IsForward:  forward,
	}
}

func (s Subject) String() string {
	return s.Original
}

func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
