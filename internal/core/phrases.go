package core

import (
	"regexp"
	"strings"
	"sync"
)

// The phrase lexicon below is what the learning loop tracks and what the
// scorer counts. Keys are lowercase; DisplayPhrase restores conventional
// casing when a phrase is written into a draft.

// VagueTimelinePhrases are the non-committal timeframes the builder must
// avoid whenever a concrete one is extractable
var VagueTimelinePhrases = []string{"soon", "shortly", "later"}

// ConcreteTimelinePhrases are specific timeframes the learning loop can
// prefer over vague ones
var ConcreteTimelinePhrases = []string{
	"by eod",
	"by end of day",
	"by end of week",
	"by tomorrow",
	"by tomorrow morning",
	"first thing tomorrow",
	"by monday",
	"within the hour",
	"today",
}

// EnthusiasmPhrases are the warmth markers the injector can add when the
// learning store shows the user consistently adds them
var EnthusiasmPhrases = []string{
	"great question!",
	"happy to help!",
	"sounds great!",
	"thanks so much!",
}

// FillerPhrases are generic non-committal phrases the pipeline penalizes
var FillerPhrases = []string{
	"i'll get back to you",
	"i will get back to you",
	"i'll circle back",
	"touch base",
	"keep you posted",
}

var (
	phraseReMu    sync.Mutex
	phraseReCache = make(map[string]*regexp.Regexp)
)

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func phraseRegexp(phrase string) *regexp.Regexp {
	phraseReMu.Lock()
	defer phraseReMu.Unlock()
	if re, ok := phraseReCache[phrase]; ok {
		return re
	}
	expr := `(?i)\b` + regexp.QuoteMeta(phrase)
	if isWordByte(phrase[len(phrase)-1]) {
		expr += `\b`
	}
	re := regexp.MustCompile(expr)
	phraseReCache[phrase] = re
	return re
}

// ContainsPhrase reports whether text contains phrase on a word boundary,
// case-insensitively
func ContainsPhrase(text, phrase string) bool {
	return phraseRegexp(phrase).MatchString(text)
}

// ReplacePhrase replaces every word-bounded occurrence of phrase in text
func ReplacePhrase(text, phrase, replacement string) string {
	return phraseRegexp(phrase).ReplaceAllString(text, replacement)
}

// TrackedPhrases returns the full lexicon the edit tracker diffs over
func TrackedPhrases() []string {
	out := make([]string, 0, len(VagueTimelinePhrases)+len(ConcreteTimelinePhrases)+len(EnthusiasmPhrases)+len(FillerPhrases))
	out = append(out, VagueTimelinePhrases...)
	out = append(out, ConcreteTimelinePhrases...)
	out = append(out, EnthusiasmPhrases...)
	out = append(out, FillerPhrases...)
	return out
}

// IsConcreteTimeline reports whether a lexicon phrase is a specific
// timeframe
func IsConcreteTimeline(phrase string) bool {
	p := strings.ToLower(phrase)
	for _, c := range ConcreteTimelinePhrases {
		if p == c {
			return true
		}
	}
	return false
}

// DisplayPhrase renders a lowercase lexicon key the way it should appear
// in reply text
func DisplayPhrase(phrase string) string {
	s := strings.ReplaceAll(phrase, "eod", "EOD")
	return strings.ReplaceAll(s, "Eod", "EOD")
}
