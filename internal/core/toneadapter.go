package core

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// ToneAdapter makes category and relationship specific adjustments to a
// scored draft. Adjustments are small and recorded, so the caller can
// surface why the final text differs from the built draft.
type ToneAdapter struct {
	logger *zap.Logger
}

func NewToneAdapter(logger *zap.Logger) *ToneAdapter {
	return &ToneAdapter{logger: logger}
}

// softening rewrites applied when a frequent sender's draft reads too
// stiffly for the relationship
var softenings = []struct{ from, to string }{
	{"Thank you for reaching out", "Thanks for reaching out"},
	{"I will ", "I'll "},
	{"Best regards", "Best"},
}

// formalizations applied when a formal tone is requested on a draft that
// drifted casual
var formalizations = []struct{ from, to string }{
	{"Thanks!", "Best regards"},
	{"Thanks for your email", "Thank you for your email"},
}

// Adapt adjusts the draft for the email category and sender relationship,
// returning the adapted text, the adjusted confidence, and a record of
// the change when one was made
func (a *ToneAdapter) Adapt(text string, confidence float64, extracted *ExtractedContext, tone Tone, profile *SenderProfile) (string, float64, *ToneAdaptation) {
	adapted := text
	reason := ""

	if extracted != nil && extracted.Category == CategoryScheduling && !strings.Contains(strings.ToLower(adapted), "work for you") {
		adapted = appendToBody(adapted, "Would tomorrow morning or early afternoon work for you?")
		confidence += 0.05
		reason = "offered concrete scheduling options"
	}

	if profile != nil && profile.Tier == TierFrequent && tone != ToneFormal {
		if softened := applyRewrites(adapted, softenings); softened != adapted {
			adapted = softened
			if reason == "" {
				reason = "softened phrasing for a frequent correspondent"
			}
		}
	}
	if tone == ToneFormal {
		if formal := applyRewrites(adapted, formalizations); formal != adapted {
			adapted = formal
			if reason == "" {
				reason = "formalized phrasing"
			}
		}
	}

	if isLowInformation(adapted) {
		confidence -= 0.05
		if reason == "" {
			reason = "reply carries no concrete commitment"
		}
	}

	confidence = math.Round(clamp01(confidence)*100) / 100

	var record *ToneAdaptation
	if adapted != text {
		record = &ToneAdaptation{Original: text, Adapted: adapted, Reason: reason}
		a.logger.Debug("Adapted tone", zap.String("reason", reason))
	}
	return adapted, confidence, record
}

// appendToBody adds a sentence to the end of the body paragraph, before
// the sign-off
func appendToBody(text, sentence string) string {
	idx := strings.LastIndex(text, "\n\n")
	if idx < 0 {
		return text + " " + sentence
	}
	return text[:idx] + " " + sentence + text[idx:]
}

func applyRewrites(text string, rewrites []struct{ from, to string }) string {
	for _, r := range rewrites {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	return text
}

// isLowInformation reports whether the draft is a bare acknowledgement
// with nothing the recipient can act on
func isLowInformation(text string) bool {
	if committedActionRe.MatchString(text) {
		return false
	}
	lower := strings.ToLower(text)
	if hasConcreteTimeline(lower) {
		return false
	}
	return strings.Contains(lower, "will follow up if anything needs attention")
}
