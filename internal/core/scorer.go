package core

import (
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// committedActionRe matches a first-person commitment to a concrete
// action. Deferral verbs ("I'll get back to you") are scored separately
// as filler, so "get back" is excluded here.
var committedActionRe = regexp.MustCompile(`(?i)\bI('|’)?ll\s+(send|share|provide|review|get you|get the|have|confirm|book|schedule|pull|go through|take care)\b`)

// ConfidenceScorer rates how specific and actionable a reply is. The
// score is a pure function of the reply text and extracted context, so
// two identical drafts always rate the same.
type ConfidenceScorer struct {
	logger *zap.Logger
}

func NewConfidenceScorer(logger *zap.Logger) *ConfidenceScorer {
	return &ConfidenceScorer{logger: logger}
}

// Score computes the confidence for a reply, clamped to [0, 1] and
// rounded to two decimals
func (s *ConfidenceScorer) Score(text string, extracted *ExtractedContext) float64 {
	lower := strings.ToLower(text)
	score := 0.5

	if hasConcreteTimeline(lower) {
		score += 0.1
	}
	if committedActionRe.MatchString(text) {
		score += 0.1
	}
	if hasEnthusiasm(text) {
		score += 0.1
	}
	if extracted != nil && extracted.MainTopic != "" &&
		strings.Contains(lower, strings.ToLower(extracted.MainTopic)) {
		score += 0.1
	}
	for _, phrase := range FillerPhrases {
		if ContainsPhrase(text, phrase) {
			score -= 0.15
			break
		}
	}
	for _, phrase := range VagueTimelinePhrases {
		if ContainsPhrase(text, phrase) {
			score -= 0.15
			break
		}
	}

	score = math.Round(clamp01(score)*100) / 100
	s.logger.Debug("Scored reply", zap.Float64("confidence", score))
	return score
}

func hasConcreteTimeline(lower string) bool {
	for _, phrase := range ConcreteTimelinePhrases {
		if ContainsPhrase(lower, phrase) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
