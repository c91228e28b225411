package core

import (
	"context"
)

// SenderProfileStore defines the interface for persistent per-sender
// interaction history. Implementations must serialize writes per sender
// while allowing concurrent reads; a read during a write returns either
// the pre- or post-update snapshot, never a torn one.
type SenderProfileStore interface {
	// Lookup returns the profile for a sender, or a fresh zero-count
	// profile if the sender has never been seen. Lookup never persists.
	Lookup(ctx context.Context, sender string) (*SenderProfile, error)

	// RecordInteraction increments the sender's interaction count,
	// recomputes the tier, persists, and returns the updated snapshot
	RecordInteraction(ctx context.Context, sender string) (*SenderProfile, error)

	// SetPreferredTone records the tone last observed for a sender
	SetPreferredTone(ctx context.Context, sender string, tone Tone) error
}

// LearningStore defines the interface for phrase statistics mined from
// user edits. Only the edit tracker writes to it; generation reads.
type LearningStore interface {
	// Snapshot returns the full phrase statistics
	Snapshot(ctx context.Context) (*LearningSnapshot, error)

	// CreditAddedPhrase increments the frequency of a phrase the user
	// added to a generated reply
	CreditAddedPhrase(ctx context.Context, phrase string) error

	// CreditAvoidedPhrase increments the frequency of a phrase the user
	// removed from a generated reply
	CreditAvoidedPhrase(ctx context.Context, phrase string) error

	// CreditTimelinePhrase increments the preference count for a
	// concrete timeline expression
	CreditTimelinePhrase(ctx context.Context, phrase string) error
}

// DraftPolisher rewrites a finished draft for fluency without changing
// its commitments, names, or timeframes. Implementations are optional;
// a failure keeps the deterministic draft.
type DraftPolisher interface {
	PolishDraft(ctx context.Context, draft string, extracted *ExtractedContext) (string, error)
}
