package header

import "testing"

func TestNewDerivesFields(t *testing.T) {
	h := New([]Field{
		{Name: "From", Value: "a@example.com"},
		{Name: "Content-Type", Value: "text/plain; charset=utf-8"},
		{Name: "X-Mailer", Value: "Postbox 7"},
		{Name: "X-Priority", Value: "1"},
		{Name: "List-Unsubscribe", Value: "<mailto:unsub@example.com>"},
		{Name: "X-Campaign-ID", Value: "42"},
		{Name: "Content-Type", Value: "text/html"},
	})

	if h.ContentType != "text/plain; charset=utf-8" {
		t.Errorf("ContentType = %q (first occurrence must win)", h.ContentType)
	}
	if h.Mailer != "Postbox 7" {
		t.Errorf("Mailer = %q", h.Mailer)
	}
	if h.Priority != PriorityHighest {
		t.Errorf("Priority = %q", h.Priority)
	}
	if h.ListUnsubscribe != "<mailto:unsub@example.com>" {
		t.Errorf("ListUnsubscribe = %q", h.ListUnsubscribe)
	}

	// Custom collects every x-* header, including the derived ones.
	if len(h.Custom) != 3 {
		t.Fatalf("len(Custom) = %d, want 3", len(h.Custom))
	}
	if h.Custom[2].Name != "X-Campaign-ID" {
		t.Errorf("Custom[2].Name = %q", h.Custom[2].Name)
	}
}

func TestUserAgentAsMailerFallback(t *testing.T) {
	h := New([]Field{
		{Name: "User-Agent", Value: "Thunderbird"},
	})
	if h.Mailer != "Thunderbird" {
		t.Errorf("Mailer = %q, want Thunderbird", h.Mailer)
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	h := New([]Field{
		{Name: "Message-ID", Value: "<abc@example.com>"},
		{Name: "Message-ID", Value: "<dup@example.com>"},
	})

	v, ok := h.Get("message-id")
	if !ok || v != "<abc@example.com>" {
		t.Errorf("Get(message-id) = %q, %v", v, ok)
	}
	if _, ok := h.Get("Absent"); ok {
		t.Error("Get(Absent) reported present")
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{"1", PriorityHighest},
		{"2", PriorityHigh},
		{"3", PriorityNormal},
		{"4", PriorityLow},
		{"5", PriorityLowest},
		{" 1 ", PriorityHighest},
		{"garbage", PriorityNormal},
		{"", PriorityNormal},
	}
	for _, tt := range tests {
		if got := ParsePriority(tt.in); got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthResults(t *testing.T) {
	h := New([]Field{
		{Name: "Authentication-Results", Value: "mx.example.com; spf=pass smtp.mailfrom=example.com; dkim=fail header.d=example.com"},
		{Name: "Authentication-Results", Value: "mx.example.com; dmarc=neutral header.from=example.com"},
	})

	if h.Authentication.SPF != AuthPass {
		t.Errorf("SPF = %q", h.Authentication.SPF)
	}
	if h.Authentication.DKIM != AuthFail {
		t.Errorf("DKIM = %q", h.Authentication.DKIM)
	}
	if h.Authentication.DMARC != AuthNeutral {
		t.Errorf("DMARC = %q", h.Authentication.DMARC)
	}
}

func TestAuthResultsLastMatchWins(t *testing.T) {
	h := New([]Field{
		{Name: "Authentication-Results", Value: "mx1.example.com; dkim=fail header.d=example.com"},
		{Name: "Authentication-Results", Value: "mx2.example.com; dkim=pass header.d=example.com"},
	})

	if h.Authentication.DKIM != AuthPass {
		t.Errorf("DKIM = %q, want %q (later header must overwrite)", h.Authentication.DKIM, AuthPass)
	}
}

func TestAuthResultsDefaultNone(t *testing.T) {
	h := New(nil)
	if h.Authentication.SPF != AuthNone || h.Authentication.DKIM != AuthNone || h.Authentication.DMARC != AuthNone {
		t.Errorf("Authentication = %+v, want all none", h.Authentication)
	}
}
