// Package address parses mailbox header values into structured email
// addresses with optional display names.
package address

import "strings"

// Address is a parsed email address. The invariant
// Address == LocalPart + "@" + Domain holds for every value produced
// by Parse.
type Address struct {
	Name      *PersonName `json:"name,omitempty"`
	Address   string      `json:"address"`
	LocalPart string      `json:"local_part"`
	Domain    string      `json:"domain"`
}

// freemailDomains are consumer webmail providers matched exactly by
// IsFreemail.
var freemailDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"outlook.com":    true,
	"hotmail.com":    true,
	"protonmail.com": true,
	"proton.me":      true,
	"icloud.com":     true,
	"aol.com":        true,
}

// Parse parses a single header value into an Address. It understands both
// "Display Name <local@domain>" and bare "local@domain" forms, using the
// first '<' and first '>' without nested-bracket handling. Returns nil when
// no @-bearing token is found.
func Parse(s string) *Address {
	s = strings.TrimSpace(s)

	start := strings.Index(s, "<")
	end := strings.Index(s, ">")
	if start >= 0 && end > start {
		namePart := strings.Trim(strings.TrimSpace(s[:start]), `"`)
		addr := strings.TrimSpace(s[start+1 : end])
		local, domain, ok := strings.Cut(addr, "@")
		if !ok {
			return nil
		}
		a := &Address{
			Address:   addr,
			LocalPart: local,
			Domain:    domain,
		}
		if namePart != "" {
			a.Name = ParseName(namePart)
		}
		return a
	}

	local, domain, ok := strings.Cut(s, "@")
	if !ok {
		return nil
	}
	return &Address{
		Address:   s,
		LocalPart: local,
		Domain:    domain,
	}
}

// ParseList splits a comma-separated recipient header (To, Cc, Bcc) and
// parses each token independently. Tokens that fail to parse are dropped;
// the header as a whole never fails.
func ParseList(s string) []Address {
	var out []Address
	for _, token := range strings.Split(s, ",") {
		if a := Parse(strings.TrimSpace(token)); a != nil {
			out = append(out, *a)
		}
	}
	return out
}

// IsNoreply reports whether the local part marks an automated sender.
func (a *Address) IsNoreply() bool {
	lower := strings.ToLower(a.LocalPart)
	return strings.Contains(lower, "noreply") ||
		strings.Contains(lower, "no-reply") ||
		strings.Contains(lower, "donotreply") ||
		strings.Contains(lower, "automated") ||
		strings.Contains(lower, "mailer-daemon")
}

// IsFreemail reports whether the domain is a known consumer webmail
// provider.
func (a *Address) IsFreemail() bool {
	return freemailDomains[strings.ToLower(a.Domain)]
}

func (a *Address) String() string {
	if a.Name != nil {
		return a.Name.Full + " <" + a.Address + ">"
	}
	return a.Address
}
