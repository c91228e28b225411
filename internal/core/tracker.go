package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EditTracker compares generated replies with what the user actually
// sent and feeds phrase-level differences into the learning store. It is
// the only writer of the learning store.
type EditTracker struct {
	store  LearningStore
	logger *zap.Logger
}

func NewEditTracker(store LearningStore, logger *zap.Logger) *EditTracker {
	return &EditTracker{store: store, logger: logger}
}

// RecordEdit classifies the edit and credits every tracked phrase that
// changed between the two texts. Crediting is best effort: a store error
// aborts the remaining credits but the record is still returned.
func (t *EditTracker) RecordEdit(ctx context.Context, generated, sent string) (*EditRecord, error) {
	sim := wordSimilarity(generated, sent)
	record := &EditRecord{
		Similarity: sim,
		EditType:   EditTypeForSimilarity(sim),
		RecordedAt: time.Now(),
	}

	added, removed := phraseDiff(generated, sent)
	record.AddedPhrases = added
	record.RemovedPhrases = removed

	t.logger.Debug("Recorded edit",
		zap.Float64("similarity", sim),
		zap.String("edit_type", string(record.EditType)),
		zap.Strings("added", added),
		zap.Strings("removed", removed))

	for _, phrase := range added {
		if err := t.store.CreditAddedPhrase(ctx, phrase); err != nil {
			return record, fmt.Errorf("failed to credit added phrase: %w", err)
		}
		if IsConcreteTimeline(phrase) {
			if err := t.store.CreditTimelinePhrase(ctx, phrase); err != nil {
				return record, fmt.Errorf("failed to credit timeline phrase: %w", err)
			}
		}
	}
	for _, phrase := range removed {
		if err := t.store.CreditAvoidedPhrase(ctx, phrase); err != nil {
			return record, fmt.Errorf("failed to credit avoided phrase: %w", err)
		}
	}
	return record, nil
}

// phraseDiff reports which tracked phrases the user added to and removed
// from the generated text. Only the known lexicon is diffed; free-form
// wording changes are deliberately ignored.
func phraseDiff(generated, sent string) (added, removed []string) {
	for _, phrase := range TrackedPhrases() {
		inGenerated := ContainsPhrase(generated, phrase)
		inSent := ContainsPhrase(sent, phrase)
		switch {
		case inSent && !inGenerated:
			added = append(added, phrase)
		case inGenerated && !inSent:
			removed = append(removed, phrase)
		}
	}
	return added, removed
}

// wordSimilarity computes a symmetric similarity ratio over word
// sequences: 2*LCS / (len(a)+len(b)). Identical texts score 1, disjoint
// texts score 0.
func wordSimilarity(a, b string) float64 {
	wa := strings.Fields(strings.ToLower(a))
	wb := strings.Fields(strings.ToLower(b))
	if len(wa) == 0 && len(wb) == 0 {
		return 1.0
	}
	if len(wa) == 0 || len(wb) == 0 {
		return 0.0
	}
	lcs := wordLCS(wa, wb)
	return float64(2*lcs) / float64(len(wa)+len(wb))
}

// wordLCS computes the longest common subsequence length with a rolling
// single-row table
func wordLCS(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
