package profile

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the SenderProfileStore
// interface. Intended for tests and single-process runs without
// persistence.
type MemoryStore struct {
	profiles map[string]*core.SenderProfile
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory profile store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*core.SenderProfile),
		logger:   logger,
	}
}

// Lookup returns the profile for a sender without persisting anything.
// Unknown senders get a fresh zero-count profile.
func (s *MemoryStore) Lookup(ctx context.Context, sender string) (*core.SenderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[sender]; ok {
		copied := *p
		return &copied, nil
	}
	return core.NewSenderProfile(sender), nil
}

// RecordInteraction increments the sender's interaction count and
// returns the updated snapshot
func (s *MemoryStore) RecordInteraction(ctx context.Context, sender string) (*core.SenderProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[sender]
	if !ok {
		p = core.NewSenderProfile(sender)
		s.profiles[sender] = p
	}
	p.Interactions++
	p.Tier = core.TierForInteractions(p.Interactions)
	p.LastSeen = time.Now()

	s.logger.Debug("Recorded sender interaction",
		zap.String("sender", sender),
		zap.Int("interactions", p.Interactions),
		zap.String("tier", string(p.Tier)))

	copied := *p
	return &copied, nil
}

// SetPreferredTone records the tone last observed for a sender
func (s *MemoryStore) SetPreferredTone(ctx context.Context, sender string, tone core.Tone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[sender]
	if !ok {
		p = core.NewSenderProfile(sender)
		s.profiles[sender] = p
	}
	p.PreferredTone = tone
	return nil
}
