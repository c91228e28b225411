package core

import (
	"strings"

	"go.uber.org/zap"
)

// PhraseInjector rewrites a draft using the sender's accumulated edit
// history. It only acts on evidence at or above minEvidence occurrences,
// and every rewrite is idempotent: running the injector on its own
// output is a no-op.
type PhraseInjector struct {
	logger      *zap.Logger
	minEvidence int
}

func NewPhraseInjector(logger *zap.Logger, minEvidence int) *PhraseInjector {
	if minEvidence < 1 {
		minEvidence = 1
	}
	return &PhraseInjector{logger: logger, minEvidence: minEvidence}
}

// Inject applies timeline substitutions and enthusiasm injection from the
// snapshot. The draft text is returned unchanged when there is no
// applicable evidence.
func (p *PhraseInjector) Inject(draft string, snapshot *LearningSnapshot, extracted *ExtractedContext) string {
	if snapshot == nil {
		return draft
	}
	out := p.substituteTimelines(draft, snapshot)
	out = p.injectEnthusiasm(out, snapshot, extracted)
	return out
}

// substituteTimelines replaces vague timeline phrasing with the concrete
// phrasing the user most often edits in
func (p *PhraseInjector) substituteTimelines(draft string, snapshot *LearningSnapshot) string {
	preferred, count := p.preferredTimeline(snapshot)
	if preferred == "" || count < p.minEvidence {
		return draft
	}
	replacement := DisplayPhrase(preferred)
	out := draft
	for _, vague := range VagueTimelinePhrases {
		if !ContainsPhrase(out, vague) {
			continue
		}
		out = ReplacePhrase(out, vague, replacement)
		p.logger.Debug("Substituted timeline phrase",
			zap.String("vague", vague),
			zap.String("preferred", preferred),
			zap.Int("evidence", count))
	}
	return out
}

// preferredTimeline picks the concrete timeline with the highest
// frequency, breaking ties deterministically by phrase order in the
// lexicon
func (p *PhraseInjector) preferredTimeline(snapshot *LearningSnapshot) (string, int) {
	best, bestCount := "", 0
	for _, phrase := range ConcreteTimelinePhrases {
		if count := snapshot.TimelinePrefs[phrase]; count > bestCount {
			best, bestCount = phrase, count
		}
	}
	return best, bestCount
}

// injectEnthusiasm prepends an enthusiasm marker to the body when the
// user habitually adds one to question replies. Skipped when the draft
// already carries one, or when the user has also been deleting it.
func (p *PhraseInjector) injectEnthusiasm(draft string, snapshot *LearningSnapshot, extracted *ExtractedContext) string {
	if extracted == nil || len(extracted.Questions) == 0 {
		return draft
	}
	if hasEnthusiasm(draft) {
		return draft
	}
	marker, count := "", 0
	for _, phrase := range EnthusiasmPhrases {
		if c := snapshot.AddedPhrases[phrase]; c > count {
			marker, count = phrase, c
		}
	}
	if marker == "" || count < p.minEvidence {
		return draft
	}
	if snapshot.AvoidedPhrases[marker] >= p.minEvidence {
		return draft
	}

	// Insert after the greeting line so the body opens with the marker
	parts := strings.SplitN(draft, "\n\n", 2)
	if len(parts) != 2 {
		return draft
	}
	display := DisplayPhrase(marker)
	display = strings.ToUpper(display[:1]) + display[1:]
	p.logger.Debug("Injected enthusiasm marker", zap.String("phrase", marker), zap.Int("evidence", count))
	return parts[0] + "\n\n" + display + " " + parts[1]
}

// hasEnthusiasm reports whether the draft already carries one of the
// enthusiasm phrases. A bare exclamation mark does not count: the casual
// sign-off ends with one.
func hasEnthusiasm(text string) bool {
	for _, phrase := range EnthusiasmPhrases {
		if ContainsPhrase(text, phrase) {
			return true
		}
	}
	return false
}
