// Package analyze derives message-level heuristics: a spam score with its
// indicators, urgency, category hints, automation flags, and a coarse
// sentiment.
package analyze

import (
	"strings"

	"github.com/mailsift/mailsift/internal/address"
	"github.com/mailsift/mailsift/internal/extract"
	"github.com/mailsift/mailsift/internal/header"
	"github.com/mailsift/mailsift/internal/subject"
)

// Urgency is the coarse urgency classification of a message.
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Sentiment is a keyword-based tone classification of the body text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SpamIndicator names one spam signal together with its score
// contribution.
type SpamIndicator struct {
	Indicator string  `json:"indicator"`
	Weight    float64 `json:"weight"`
}

// CategoryHint is one weighted guess at the message category, with the
// evidence that produced it.
type CategoryHint struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Metadata is the heuristic summary of one message.
type Metadata struct {
	SpamScore      float64         `json:"spam_score"`
	SpamIndicators []SpamIndicator `json:"spam_indicators"`
	Urgency        Urgency         `json:"urgency"`
	CategoryHints  []CategoryHint  `json:"category_hints"`
	IsAutomated    bool            `json:"is_automated"`
	IsMailingList  bool            `json:"is_mailing_list"`
	Sentiment      Sentiment       `json:"sentiment"`
}

// Analyze computes Metadata from the parsed message parts. Every rule is
// additive and order-independent except the spam score clamp.
func Analyze(from *address.Address, subj subject.Subject, hdrs header.Headers, ents extract.Entities, bodyText string) Metadata {
	m := Metadata{
		Urgency:   UrgencyNormal,
		Sentiment: SentimentNeutral,
	}

	noreply := from != nil && from.IsNoreply()
	subjectLower := strings.ToLower(subj.Original)

	if noreply {
		m.SpamScore += 0.1
		m.SpamIndicators = append(m.SpamIndicators, SpamIndicator{Indicator: "noreply_sender", Weight: 0.1})
	}

	trackingURLs := 0
	for _, u := range ents.URLs {
		if u.IsTracking {
			trackingURLs++
		}
	}
	if trackingURLs > 3 {
		m.SpamScore += 0.2
		m.SpamIndicators = append(m.SpamIndicators, SpamIndicator{Indicator: "excessive_tracking", Weight: 0.2})
	}

	if strings.Contains(subjectLower, "urgent") ||
		strings.Contains(subjectLower, "act now") ||
		strings.Contains(subjectLower, "limited time") {
		m.SpamScore += 0.15
		m.SpamIndicators = append(m.SpamIndicators, SpamIndicator{Indicator: "urgency_language", Weight: 0.15})
	}

	m.SpamScore = min(m.SpamScore, 1.0)

	if strings.Contains(subjectLower, "urgent") ||
		strings.Contains(subjectLower, "asap") ||
		strings.Contains(subjectLower, "emergency") ||
		hdrs.Priority == header.PriorityHigh ||
		hdrs.Priority == header.PriorityHighest {
		m.Urgency = UrgencyHigh
	}

	if hdrs.ListUnsubscribe != "" {
		m.CategoryHints = append(m.CategoryHints, CategoryHint{
			Category:   "newsletter",
			Confidence: 0.9,
			Reason:     "Has List-Unsubscribe header",
		})
	}
	if noreply {
		m.CategoryHints = append(m.CategoryHints, CategoryHint{
			Category:   "automated",
			Confidence: 0.8,
			Reason:     "From noreply address",
		})
	}
	if len(ents.PhoneNumbers) > 0 && len(ents.Companies) > 0 {
		m.CategoryHints = append(m.CategoryHints, CategoryHint{
			Category:   "lead",
			Confidence: 0.6,
			Reason:     "Contains contact information",
		})
	}

	m.IsAutomated = noreply || hdrs.Mailer != ""
	m.IsMailingList = hdrs.ListUnsubscribe != ""
	m.Sentiment = detectSentiment(bodyText)

	return m
}

// detectSentiment checks positive keywords before negative ones, so mixed
// text reads positive.
func detectSentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "thank") ||
		strings.Contains(lower, "appreciate") ||
		strings.Contains(lower, "great") ||
		strings.Contains(lower, "excellent"):
		return SentimentPositive
	case strings.Contains(lower, "complaint") ||
		strings.Contains(lower, "frustrated") ||
		strings.Contains(lower, "disappointed") ||
		strings.Contains(lower, "problem"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
