package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"pgregory.net/rapid"
)

func TestExtractEmails(t *testing.T) {
	text := "Contact john.doe@example.com or sales+promo@shop.example.org for details."
	ents := Extract(text)

	if len(ents.Emails) != 2 {
		t.Fatalf("got %d emails, want 2", len(ents.Emails))
	}
	if ents.Emails[0].Address != "john.doe@example.com" {
		t.Errorf("first email = %q", ents.Emails[0].Address)
	}
	if ents.Emails[1].Address != "sales+promo@shop.example.org" {
		t.Errorf("second email = %q", ents.Emails[1].Address)
	}
	if ents.Emails[0].Position != strings.Index(text, "john.doe") {
		t.Errorf("position = %d", ents.Emails[0].Position)
	}
	if !strings.Contains(ents.Emails[0].Context, "john.doe@example.com") {
		t.Errorf("context %q does not contain the match", ents.Emails[0].Context)
	}
}

func TestEmailContextRuneBoundaries(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		runes := rapid.SampledFrom([]rune("aé漢🎉 "))
		prefix := rapid.StringOf(runes).Draw(t, "prefix")
		suffix := rapid.StringOf(runes).Draw(t, "suffix")
		text := prefix + " test@example.com " + suffix

		ents := Extract(text)
		for _, e := range ents.Emails {
			if !utf8.ValidString(e.Context) {
				t.Fatalf("context %q is not valid UTF-8", e.Context)
			}
		}
	})
}

func TestExtractPhones(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantNormalized string
		wantType       PhoneType
	}{
		{
			name:           "dashed",
			text:           "call 555-123-4567 today",
			wantNormalized: "5551234567",
			wantType:       PhoneUnknown,
		},
		{
			name:           "parenthesized with country code",
			text:           "+1 (555) 123-4567",
			wantNormalized: "+15551234567",
			wantType:       PhoneUnknown,
		},
		{
			name:           "toll free",
			text:           "1-800-555-1234",
			wantNormalized: "18005551234",
			wantType:       PhoneTollFree,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := Extract(tt.text)
			if len(ents.PhoneNumbers) == 0 {
				t.Fatalf("no phones found in %q", tt.text)
			}
			p := ents.PhoneNumbers[0]
			if p.Normalized != tt.wantNormalized {
				t.Errorf("Normalized = %q, want %q", p.Normalized, tt.wantNormalized)
			}
			if p.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", p.Type, tt.wantType)
			}
		})
	}
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantDomain   string
		wantTracking bool
		wantType     URLType
	}{
		{
			name:       "plain website",
			url:        "https://example.com/page",
			wantDomain: "example.com",
			wantType:   URLWebsite,
		},
		{
			name:         "unsubscribe beats tracking",
			url:          "https://news.example.com/track/unsubscribe?id=1",
			wantDomain:   "news.example.com",
			wantTracking: true,
			wantType:     URLUnsubscribe,
		},
		{
			name:         "tracking by utm",
			url:          "https://example.com/offer?utm_source=mail",
			wantDomain:   "example.com",
			wantTracking: true,
			wantType:     URLTracking,
		},
		{
			name:       "social media domain",
			url:        "https://www.linkedin.com/company/acme",
			wantDomain: "www.linkedin.com",
			wantType:   URLSocialMedia,
		},
		{
			name:       "calendar invite",
			url:        "https://example.com/invite.ics",
			wantDomain: "example.com",
			wantType:   URLCalendar,
		},
		{
			name:       "document",
			url:        "https://example.com/report.pdf",
			wantDomain: "example.com",
			wantType:   URLDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := Extract("see " + tt.url + " now")
			if len(ents.URLs) != 1 {
				t.Fatalf("got %d urls, want 1", len(ents.URLs))
			}
			u := ents.URLs[0]
			if u.Domain != tt.wantDomain {
				t.Errorf("Domain = %q, want %q", u.Domain, tt.wantDomain)
			}
			if u.IsTracking != tt.wantTracking {
				t.Errorf("IsTracking = %v, want %v", u.IsTracking, tt.wantTracking)
			}
			if u.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", u.Type, tt.wantType)
			}
		})
	}
}

func TestExtractAmounts(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantValue    float64
		wantCurrency string
	}{
		{"dollar sign", "total is $1,234.56 due", 1234.56, "USD"},
		{"euro sign", "costs €99.00 only", 99.00, "EUR"},
		{"pound sign", "price £20", 20, "GBP"},
		{"suffix code", "invoice for 500.00 EUR attached", 500, "EUR"},
		{"yen falls back to usd", "about ¥1000 total", 1000, "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := Extract(tt.text)
			if len(ents.Amounts) != 1 {
				t.Fatalf("got %d amounts, want 1 in %q", len(ents.Amounts), tt.text)
			}
			a := ents.Amounts[0]
			if a.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", a.Value, tt.wantValue)
			}
			if a.Currency != tt.wantCurrency {
				t.Errorf("Currency = %q, want %q", a.Currency, tt.wantCurrency)
			}
		})
	}
}

func TestParseAmountCurrencyPrecedence(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"$100 EUR", "USD"},
		{"€100 USD", "USD"},
		{"£50 EUR", "EUR"},
		{"¥900", "USD"},
	}
	for _, tt := range tests {
		a, ok := parseAmount(tt.raw)
		if !ok {
			t.Fatalf("parseAmount(%q) failed", tt.raw)
		}
		if a.Currency != tt.want {
			t.Errorf("parseAmount(%q).Currency = %q, want %q", tt.raw, a.Currency, tt.want)
		}
	}

	if _, ok := parseAmount("$"); ok {
		t.Error("parseAmount($) succeeded with no digits")
	}
}

func TestExtractSocialHandles(t *testing.T) {
	ents := Extract("Follow @acme_corp or visit linkedin.com/in/john-doe for more.")

	var twitter, linkedin []string
	for _, h := range ents.SocialHandles {
		switch h.Platform {
		case PlatformTwitter:
			twitter = append(twitter, h.Handle)
		case PlatformLinkedIn:
			linkedin = append(linkedin, h.Handle)
		}
	}

	if len(twitter) != 1 || twitter[0] != "acme_corp" {
		t.Errorf("twitter handles = %v", twitter)
	}
	if len(linkedin) != 1 || linkedin[0] != "john-doe" {
		t.Errorf("linkedin handles = %v", linkedin)
	}
}

func TestEmailAlsoMatchesTwitterPattern(t *testing.T) {
	// The @ scan is independent of the email scan, so the domain side of
	// an address shows up as a twitter handle too.
	ents := Extract("write to john@example.com")

	if len(ents.Emails) != 1 {
		t.Fatalf("got %d emails, want 1", len(ents.Emails))
	}
	found := false
	for _, h := range ents.SocialHandles {
		if h.Platform == PlatformTwitter && h.Handle == "example" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected twitter handle %q in %v", "example", ents.SocialHandles)
	}
}

func TestIsEmptyAndTotalCount(t *testing.T) {
	empty := Extract("nothing to see here")
	if !empty.IsEmpty() {
		t.Error("IsEmpty() = false for plain text")
	}
	if empty.TotalCount() != 0 {
		t.Errorf("TotalCount() = %d, want 0", empty.TotalCount())
	}

	full := Extract("mail a@b.co, call 555-123-4567, pay $5.00, see https://example.com/x")
	if full.IsEmpty() {
		t.Error("IsEmpty() = true for entity-rich text")
	}
	if full.TotalCount() < 4 {
		t.Errorf("TotalCount() = %d, want at least 4", full.TotalCount())
	}

	// Social handles alone do not make the result non-empty.
	handleOnly := Extract("ping @someone about it")
	if !handleOnly.IsEmpty() {
		t.Error("IsEmpty() = false for handle-only text")
	}
	if handleOnly.TotalCount() != 1 {
		t.Errorf("TotalCount() = %d, want 1", handleOnly.TotalCount())
	}
}
