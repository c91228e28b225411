package learning

import (
	"context"
	"sync"

	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// Phrase statistic kinds as stored
const (
	kindAdded    = "added"
	kindAvoided  = "avoided"
	kindTimeline = "timeline"
)

// MemoryStore is an in-memory implementation of the LearningStore
// interface. Intended for tests and runs where learning should not
// persist across restarts.
type MemoryStore struct {
	counts map[string]map[string]int
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory learning store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		counts: map[string]map[string]int{
			kindAdded:    {},
			kindAvoided:  {},
			kindTimeline: {},
		},
		logger: logger,
	}
}

// Snapshot returns a copy of the full phrase statistics
func (s *MemoryStore) Snapshot(ctx context.Context) (*core.LearningSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := core.EmptyLearningSnapshot()
	for phrase, n := range s.counts[kindAdded] {
		snap.AddedPhrases[phrase] = n
	}
	for phrase, n := range s.counts[kindAvoided] {
		snap.AvoidedPhrases[phrase] = n
	}
	for phrase, n := range s.counts[kindTimeline] {
		snap.TimelinePrefs[phrase] = n
	}
	return snap, nil
}

// CreditAddedPhrase increments the frequency of a phrase the user added
func (s *MemoryStore) CreditAddedPhrase(ctx context.Context, phrase string) error {
	return s.credit(kindAdded, phrase)
}

// CreditAvoidedPhrase increments the frequency of a phrase the user removed
func (s *MemoryStore) CreditAvoidedPhrase(ctx context.Context, phrase string) error {
	return s.credit(kindAvoided, phrase)
}

// CreditTimelinePhrase increments the preference count for a concrete
// timeline expression
func (s *MemoryStore) CreditTimelinePhrase(ctx context.Context, phrase string) error {
	return s.credit(kindTimeline, phrase)
}

func (s *MemoryStore) credit(kind, phrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[kind][phrase]++
	s.logger.Debug("Credited phrase",
		zap.String("kind", kind),
		zap.String("phrase", phrase),
		zap.Int("frequency", s.counts[kind][phrase]))
	return nil
}
