// Package extract mines structured entities (email addresses, phone
// numbers, URLs, monetary amounts, social handles) from free text using
// fixed pattern matchers. The matchers are compiled once at init and are
// immutable, so Extract is safe for any number of concurrent callers.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?1[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`)
	urlPattern      = regexp.MustCompile(`https?://[^\s<>\[\]{}|\\^]+`)
	amountPattern   = regexp.MustCompile(`[$€£¥]\s*[\d,]+(?:\.\d{2})?|[\d,]+(?:\.\d{2})?\s*(?:USD|EUR|GBP|CAD|AUD)`)
	twitterPattern  = regexp.MustCompile(`@([a-zA-Z0-9_]{1,15})`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/([a-zA-Z0-9-]+)`)
)

// contextWindow is the number of bytes captured on each side of an email
// match, snapped to rune boundaries.
const contextWindow = 30

// Entities holds everything mined from one text. Each slice is populated by
// an independent scan and preserves left-to-right match order; there are no
// cross-entity invariants. Names, Companies, Dates, and Addresses are
// reserved for callers with richer recognizers; nothing here fills them.
type Entities struct {
	Emails        []Email          `json:"emails"`
	PhoneNumbers  []PhoneNumber    `json:"phone_numbers"`
	URLs          []URL            `json:"urls"`
	Names         []string         `json:"names"`
	Companies     []string         `json:"companies"`
	Dates         []string         `json:"dates"`
	Amounts       []MonetaryAmount `json:"amounts"`
	Addresses     []string         `json:"addresses"`
	SocialHandles []SocialHandle   `json:"social_handles"`
}

// Email is an address found in body text with its surrounding context.
type Email struct {
	Address string `json:"address"`
	Context string `json:"context"`
	// Position is the byte offset of the match start in the source text.
	Position int `json:"position"`
}

// PhoneType classifies a phone number.
type PhoneType string

const (
	PhoneMobile   PhoneType = "mobile"
	PhoneLandline PhoneType = "landline"
	PhoneTollFree PhoneType = "toll_free"
	PhoneUnknown  PhoneType = "unknown"
)

// PhoneNumber is a North-American-style phone match.
type PhoneNumber struct {
	Raw         string    `json:"raw"`
	Normalized  string    `json:"normalized"`
	Type        PhoneType `json:"phone_type"`
	CountryCode string    `json:"country_code,omitempty"`
}

// URLType classifies a URL by its likely purpose.
type URLType string

const (
	URLWebsite     URLType = "website"
	URLSocialMedia URLType = "social_media"
	URLUnsubscribe URLType = "unsubscribe"
	URLTracking    URLType = "tracking"
	URLCalendar    URLType = "calendar"
	URLDocument    URLType = "document"
	URLOther       URLType = "other"
)

// URL is an http(s) link found in body text.
type URL struct {
	URL        string  `json:"url"`
	Domain     string  `json:"domain"`
	IsTracking bool    `json:"is_tracking"`
	Type       URLType `json:"url_type"`
}

// MonetaryAmount is a currency-tagged numeric value.
type MonetaryAmount struct {
	Raw      string  `json:"raw"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Platform identifies a social network.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformGitHub    Platform = "github"
)

// SocialHandle is a platform-qualified handle. The Twitter and LinkedIn
// scans run independently, so the same token may appear under both
// platforms.
type SocialHandle struct {
	Platform Platform `json:"platform"`
	Handle   string   `json:"handle"`
}

// Extract runs every entity scan over the text and collects the results.
func Extract(text string) Entities {
	var ents Entities

	for _, m := range emailPattern.FindAllStringIndex(text, -1) {
		start := snapToBoundary(text, max(m[0]-contextWindow, 0))
		end := snapToBoundary(text, min(m[1]+contextWindow, len(text)))
		ents.Emails = append(ents.Emails, Email{
			Address:  text[m[0]:m[1]],
			Context:  text[start:end],
			Position: m[0],
		})
	}

	for _, raw := range phonePattern.FindAllString(text, -1) {
		normalized := normalizePhone(raw)
		ents.PhoneNumbers = append(ents.PhoneNumbers, PhoneNumber{
			Raw:        raw,
			Normalized: normalized,
			Type:       detectPhoneType(normalized),
		})
	}

	for _, raw := range urlPattern.FindAllString(text, -1) {
		domain := extractDomain(raw)
		ents.URLs = append(ents.URLs, URL{
			URL:        raw,
			Domain:     domain,
			IsTracking: isTrackingURL(raw),
			Type:       detectURLType(raw, domain),
		})
	}

	for _, raw := range amountPattern.FindAllString(text, -1) {
		if amount, ok := parseAmount(raw); ok {
			ents.Amounts = append(ents.Amounts, amount)
		}
	}

	for _, m := range twitterPattern.FindAllStringSubmatch(text, -1) {
		ents.SocialHandles = append(ents.SocialHandles, SocialHandle{
			Platform: PlatformTwitter,
			Handle:   m[1],
		})
	}

	for _, m := range linkedinPattern.FindAllStringSubmatch(text, -1) {
		ents.SocialHandles = append(ents.SocialHandles, SocialHandle{
			Platform: PlatformLinkedIn,
			Handle:   m[1],
		})
	}

	return ents
}

// IsEmpty reports whether the four primary scans all came up empty. Social
// handles and the reserved slices are deliberately excluded.
func (e *Entities) IsEmpty() bool {
	return len(e.Emails) == 0 &&
		len(e.PhoneNumbers) == 0 &&
		len(e.URLs) == 0 &&
		len(e.Amounts) == 0
}

// TotalCount sums the populated entity families (the reserved slices are
// excluded).
func (e *Entities) TotalCount() int {
	return len(e.Emails) +
		len(e.PhoneNumbers) +
		len(e.URLs) +
		len(e.Amounts) +
		len(e.SocialHandles)
}

// snapToBoundary moves a byte index backward until it sits on a valid
// UTF-8 rune boundary.
func snapToBoundary(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// normalizePhone keeps only digits and '+'.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// detectPhoneType recognizes toll-free prefixes; everything else is
// Unknown.
func detectPhoneType(normalized string) PhoneType {
	digits := strings.TrimPrefix(normalized, "+")
	if strings.HasPrefix(digits, "1800") ||
		strings.HasPrefix(digits, "1888") ||
		strings.HasPrefix(digits, "1877") {
		return PhoneTollFree
	}
	return PhoneUnknown
}

func extractDomain(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	domain, _, _ := strings.Cut(url, "/")
	return domain
}

func isTrackingURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.Contains(lower, "track") ||
		strings.Contains(lower, "click") ||
		strings.Contains(lower, "redirect") ||
		strings.Contains(lower, "utm_") ||
		strings.Contains(lower, "mc_eid") ||
		strings.Contains(lower, "trk")
}

// detectURLType resolves the type by fixed precedence; the first matching
// rule wins.
func detectURLType(url, domain string) URLType {
	lower := strings.ToLower(url)
	domainLower := strings.ToLower(domain)

	switch {
	case strings.Contains(lower, "unsubscribe") || strings.Contains(lower, "optout"):
		return URLUnsubscribe
	case isTrackingURL(url):
		return URLTracking
	case strings.Contains(domainLower, "linkedin") ||
		strings.Contains(domainLower, "twitter") ||
		strings.Contains(domainLower, "facebook") ||
		strings.Contains(domainLower, "instagram"):
		return URLSocialMedia
	case strings.Contains(lower, "calendar") || strings.Contains(lower, ".ics"):
		return URLCalendar
	case strings.HasSuffix(lower, ".pdf") ||
		strings.HasSuffix(lower, ".doc") ||
		strings.HasSuffix(lower, ".docx") ||
		strings.HasSuffix(lower, ".xls"):
		return URLDocument
	default:
		return URLWebsite
	}
}

// parseAmount strips thousands separators and parses the numeric value.
// Currency resolution is presence-check precedence: USD, then EUR, then
// GBP, defaulting to USD (a bare ¥ falls through to the default).
func parseAmount(raw string) (MonetaryAmount, bool) {
	var clean strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			clean.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(clean.String(), 64)
	if err != nil {
		return MonetaryAmount{}, false
	}

	currency := "USD"
	switch {
	case strings.Contains(raw, "$") || strings.Contains(raw, "USD"):
		currency = "USD"
	case strings.Contains(raw, "€") || strings.Contains(raw, "EUR"):
		currency = "EUR"
	case strings.Contains(raw, "£") || strings.Contains(raw, "GBP"):
		currency = "GBP"
	}

	return MonetaryAmount{Raw: raw, Value: value, Currency: currency}, true
}
