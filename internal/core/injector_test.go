package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func snapshotWith(timeline map[string]int, added map[string]int, avoided map[string]int) *LearningSnapshot {
	snap := EmptyLearningSnapshot()
	for k, v := range timeline {
		snap.TimelinePrefs[k] = v
	}
	for k, v := range added {
		snap.AddedPhrases[k] = v
	}
	for k, v := range avoided {
		snap.AvoidedPhrases[k] = v
	}
	return snap
}

func TestInjectSubstitutesLearnedTimeline(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi there,\n\nI'll review the contract and get it to you soon.\n\nBest"

	out := inj.Inject(draft, snapshotWith(map[string]int{"by eod": 5}, nil, nil), &ExtractedContext{})

	assert.NotContains(t, out, "soon")
	assert.Contains(t, out, "by EOD")
}

func TestInjectIgnoresThinEvidence(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi there,\n\nI'll review the contract and get it to you soon.\n\nBest"

	out := inj.Inject(draft, snapshotWith(map[string]int{"by eod": 2}, nil, nil), &ExtractedContext{})

	assert.Equal(t, draft, out)
}

func TestInjectPicksMostFrequentTimeline(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi there,\n\nI'll send it over shortly.\n\nBest"

	snap := snapshotWith(map[string]int{"by eod": 3, "by end of week": 7}, nil, nil)
	out := inj.Inject(draft, snap, &ExtractedContext{})

	assert.Contains(t, out, "by end of week")
	assert.NotContains(t, out, "shortly")
}

func TestInjectCasualSignOffDoesNotBlockEnthusiasm(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi Sam,\n\nI'll review the numbers and confirm.\n\nThanks!"
	extracted := &ExtractedContext{Questions: []string{"Can you check the numbers?"}}

	out := inj.Inject(draft, snapshotWith(nil, map[string]int{"great question!": 4}, nil), extracted)

	assert.Contains(t, out, "Great question!")
}

func TestInjectAddsEnthusiasmForQuestions(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi Sarah,\n\nI'll review the numbers and confirm.\n\nBest"
	extracted := &ExtractedContext{Questions: []string{"Can you check the numbers?"}}

	out := inj.Inject(draft, snapshotWith(nil, map[string]int{"great question!": 4}, nil), extracted)

	assert.Contains(t, out, "Great question!")
}

func TestInjectEnthusiasmVetoedByAvoidance(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi Sarah,\n\nI'll review the numbers and confirm.\n\nBest"
	extracted := &ExtractedContext{Questions: []string{"Can you check the numbers?"}}

	snap := snapshotWith(nil, map[string]int{"great question!": 4}, map[string]int{"great question!": 4})
	out := inj.Inject(draft, snap, extracted)

	assert.Equal(t, draft, out)
}

func TestInjectSkipsEnthusiasmWithoutQuestions(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi Sarah,\n\nI'll review the numbers and confirm.\n\nBest"

	out := inj.Inject(draft, snapshotWith(nil, map[string]int{"great question!": 4}, nil), &ExtractedContext{})

	assert.Equal(t, draft, out)
}

func TestInjectIsIdempotent(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi there,\n\nI'll look into this and reply soon.\n\nBest"
	extracted := &ExtractedContext{Questions: []string{"What happened to the export job?"}}
	snap := snapshotWith(map[string]int{"by eod": 5}, map[string]int{"great question!": 4}, nil)

	once := inj.Inject(draft, snap, extracted)
	twice := inj.Inject(once, snap, extracted)

	assert.NotEqual(t, draft, once)
	assert.Equal(t, once, twice)
}

func TestInjectNilSnapshotIsNoOp(t *testing.T) {
	inj := NewPhraseInjector(zap.NewNop(), 3)
	draft := "Hi there,\n\nI'll send it soon.\n\nBest"

	assert.Equal(t, draft, inj.Inject(draft, nil, &ExtractedContext{}))
}
