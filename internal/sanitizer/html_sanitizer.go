// Package sanitizer provides HTML sanitization for parsed message bodies
// to prevent XSS and block tracking pixels when the sanitized HTML is
// rendered downstream.
package sanitizer

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans message HTML with a fixed bluemonday policy plus
// pre-passes for scripts, event handlers, and external images.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a Sanitizer with secure defaults for email HTML.
func New() *Sanitizer {
	policy := bluemonday.UGCPolicy()

	// Email HTML routinely carries legacy presentational markup.
	policy.AllowElements(
		"p", "br", "hr", "div", "span",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"strong", "b", "em", "i", "u", "s", "strike",
		"blockquote", "pre", "code",
		"ul", "ol", "li", "dl", "dt", "dd",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"a", "img",
		"font", "center",
	)

	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("src", "alt", "width", "height").OnElements("img")
	policy.AllowAttrs("style", "class", "id").Globally()
	policy.AllowAttrs("align", "valign", "bgcolor", "color", "size", "face").Globally()
	policy.AllowAttrs("colspan", "rowspan", "border", "cellpadding", "cellspacing").OnElements("table", "td", "th")
	policy.AllowDataURIImages()

	return &Sanitizer{policy: policy}
}

var (
	scriptRegex       = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	noscriptRegex     = regexp.MustCompile(`(?i)<noscript[^>]*>[\s\S]*?</noscript>`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	imgTagRegex       = regexp.MustCompile(`(?i)(<img[^>]*\s+src\s*=\s*)("[^"]*"|'[^']*')([^>]*>)`)
	imgSrcRegex       = regexp.MustCompile(`(?i)src\s*=\s*["']([^"']*)["']`)
)

// blockedImagePlaceholder replaces external image sources so tracking
// pixels never load.
const blockedImagePlaceholder = "data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' width='100' height='100'%3E%3Crect fill='%23f0f0f0' width='100' height='100'/%3E%3Ctext x='50' y='55' text-anchor='middle' fill='%23999' font-size='12'%3EImage Blocked%3C/text%3E%3C/svg%3E"

// Sanitize applies all sanitization rules to HTML content.
func (s *Sanitizer) Sanitize(html string) string {
	if html == "" {
		return ""
	}

	result := s.RemoveScripts(html)
	result = s.RemoveEventHandlers(result)
	result = s.BlockExternalImages(result)
	return s.policy.Sanitize(result)
}

// RemoveScripts removes script and noscript tags with their content.
func (s *Sanitizer) RemoveScripts(html string) string {
	result := scriptRegex.ReplaceAllString(html, "")
	return noscriptRegex.ReplaceAllString(result, "")
}

// RemoveEventHandlers strips inline on* attributes (onclick, onload, ...).
func (s *Sanitizer) RemoveEventHandlers(html string) string {
	return eventHandlerRegex.ReplaceAllString(html, "")
}

// BlockExternalImages replaces external image sources with a placeholder.
// Inline data: and cid: images pass through.
func (s *Sanitizer) BlockExternalImages(html string) string {
	return imgTagRegex.ReplaceAllStringFunc(html, func(match string) string {
		srcMatch := imgSrcRegex.FindStringSubmatch(match)
		if len(srcMatch) < 2 {
			return match
		}

		src := strings.TrimSpace(strings.ToLower(srcMatch[1]))
		if strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "cid:") {
			return match
		}
		if isExternalURL(src) {
			return imgSrcRegex.ReplaceAllString(match, `src="`+blockedImagePlaceholder+`"`)
		}
		return match
	})
}

// isExternalURL checks if a URL points off-host (http, https, ftp, or
// protocol-relative).
func isExternalURL(url string) bool {
	return strings.HasPrefix(url, "//") ||
		strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "ftp://")
}
