package sanitizer

import (
	"regexp"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestSanitizeRemovesScripts(t *testing.T) {
	s := New()

	rapid.Check(t, func(t *rapid.T) {
		scriptContent := rapid.StringMatching(`[a-zA-Z0-9\s\(\)\{\};='"]+`).Draw(t, "scriptContent")
		beforeContent := rapid.StringMatching(`[a-zA-Z0-9\s<>]+`).Draw(t, "beforeContent")
		afterContent := rapid.StringMatching(`[a-zA-Z0-9\s<>]+`).Draw(t, "afterContent")

		html := beforeContent + "<script>" + scriptContent + "</script>" + afterContent

		result := s.Sanitize(html)

		scriptTagRegex := regexp.MustCompile(`(?i)<script`)
		if scriptTagRegex.MatchString(result) {
			t.Fatalf("Script tag found in sanitized output: %s", result)
		}

		if strings.Contains(result, scriptContent) && len(scriptContent) > 5 {
			t.Fatalf("Script content %q found in sanitized output: %s", scriptContent, result)
		}
	})
}

func TestSanitizeRemovesEventHandlers(t *testing.T) {
	s := New()

	eventHandlers := []string{
		"onclick", "onload", "onerror", "onmouseover", "onmouseout",
		"onfocus", "onblur", "onsubmit", "onchange", "onkeydown",
	}

	rapid.Check(t, func(t *rapid.T) {
		handler := rapid.SampledFrom(eventHandlers).Draw(t, "handler")
		handlerValue := rapid.StringMatching(`[a-zA-Z0-9\(\)]+`).Draw(t, "handlerValue")

		html := `<div ` + handler + `="` + handlerValue + `">Content</div>`

		result := s.Sanitize(html)

		eventRegex := regexp.MustCompile(`(?i)\s+on[a-z]+=`)
		if eventRegex.MatchString(result) {
			t.Fatalf("Event handler found in sanitized output: %s (original: %s)", result, html)
		}
	})
}

func TestSanitizeBlocksExternalImages(t *testing.T) {
	s := New()

	tests := []struct {
		name    string
		html    string
		blocked bool
	}{
		{
			name:    "external https image",
			html:    `<img src="https://tracker.example.com/pixel.gif">`,
			blocked: true,
		},
		{
			name:    "external http image",
			html:    `<img src="http://cdn.example.com/logo.png">`,
			blocked: true,
		},
		{
			name:    "protocol relative image",
			html:    `<img src="//cdn.example.com/logo.png">`,
			blocked: true,
		},
		{
			name:    "inline data image",
			html:    `<img src="data:image/png;base64,iVBORw0KGgo=">`,
			blocked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.BlockExternalImages(tt.html)
			containsOriginal := strings.Contains(result, `src="http`) ||
				strings.Contains(result, `src="//`)
			if tt.blocked && containsOriginal {
				t.Errorf("external image not blocked: %s", result)
			}
			if !tt.blocked && !strings.Contains(result, "data:image/png") {
				t.Errorf("inline image was altered: %s", result)
			}
		})
	}
}

func TestSanitizeEmptyInput(t *testing.T) {
	s := New()
	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}
