package address

import "strings"

// PersonName is a display name split into first and last tokens. First and
// Last are empty when not derivable; middle tokens are discarded.
type PersonName struct {
	Full  string `json:"full"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// ParseName trims the input, strips surrounding double quotes, and splits on
// whitespace. Single-token names have no Last; Full preserves internal
// spacing of the trimmed original.
func ParseName(s string) *PersonName {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	parts := strings.Fields(s)

	switch len(parts) {
	case 0:
		return &PersonName{}
	case 1:
		return &PersonName{Full: parts[0], First: parts[0]}
	default:
		return &PersonName{Full: s, First: parts[0], Last: parts[len(parts)-1]}
	}
}

func (n *PersonName) String() string {
	return n.Full
}
