package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func buildProfile(interactions int) *SenderProfile {
	p := NewSenderProfile("sender@example.com")
	p.Interactions = interactions
	p.Tier = TierForInteractions(interactions)
	return p
}

func TestBuildCommitsToExtractedContent(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)

	extracted := &ExtractedContext{
		SenderName: "Sarah",
		Questions:  []string{"Can you send the Q4 report by tomorrow?"},
		Deadlines:  []string{"tomorrow"},
		MainTopic:  "Q4 Report",
		Category:   CategoryRequest,
	}

	draft := b.Build(extracted, ToneBusiness, buildProfile(0))

	assert.Contains(t, draft.Text, "Hi Sarah,")
	assert.Contains(t, draft.Text, "I'll send you the Q4 Report by tomorrow.")
	assert.NotContains(t, draft.Text, "I'll get back to you")
	assert.True(t, strings.HasSuffix(draft.Text, "Best"))
}

func TestBuildGreetingAndSignOffFollowTone(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)
	extracted := &ExtractedContext{SenderName: "Dr. Chen", MainTopic: "Lab Results"}

	tests := []struct {
		tone     Tone
		greeting string
		signOff  string
	}{
		{ToneFormal, "Dear Dr. Chen,", "Best regards"},
		{ToneBusiness, "Hi Dr. Chen,", "Best"},
		{ToneCasual, "Hi Dr. Chen,", "Thanks!"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			draft := b.Build(extracted, tt.tone, nil)
			assert.True(t, strings.HasPrefix(draft.Text, tt.greeting))
			assert.True(t, strings.HasSuffix(draft.Text, tt.signOff))
		})
	}
}

func TestBuildOpeningVariesByTier(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)
	extracted := &ExtractedContext{MainTopic: "Renewal Terms"}

	newDraft := b.Build(extracted, ToneBusiness, buildProfile(1))
	occasionalDraft := b.Build(extracted, ToneBusiness, buildProfile(10))
	frequentDraft := b.Build(extracted, ToneBusiness, buildProfile(25))

	assert.Contains(t, newDraft.Text, "Thank you for reaching out")
	assert.Contains(t, occasionalDraft.Text, "Thanks for your email")
	assert.Contains(t, frequentDraft.Text, "Always good to hear from you")
	assert.NotEqual(t, newDraft.Text, frequentDraft.Text)
}

func TestBuildNilProfileTreatedAsNewSender(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)
	extracted := &ExtractedContext{MainTopic: "Onboarding"}

	draft := b.Build(extracted, ToneBusiness, nil)

	assert.Contains(t, draft.Text, "Thank you for reaching out")
	assert.Contains(t, draft.Text, "Hi there,")
}

func TestBuildFallbackWhenNothingExtracted(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)

	draft := b.Build(&ExtractedContext{}, ToneBusiness, nil)

	assert.Contains(t, draft.Text, "Thanks for your note.")
	for _, vague := range VagueTimelinePhrases {
		assert.False(t, ContainsPhrase(draft.Text, vague), "fallback must not promise vague timelines")
	}
	for _, filler := range FillerPhrases {
		assert.False(t, ContainsPhrase(draft.Text, filler), "fallback must not use filler")
	}
}

func TestBuildPriorityOrderControlsFirstCommitment(t *testing.T) {
	extracted := &ExtractedContext{
		Questions:   []string{"What is the plan for the rollout?"},
		ActionItems: []string{"Please share the rollout checklist."},
		Deadlines:   []string{"friday"},
		MainTopic:   "Rollout Plan",
	}

	defaultBuilder := NewReplyBuilder(zap.NewNop(), nil)
	questionFirst := NewReplyBuilder(zap.NewNop(), []Signal{SignalQuestion, SignalDeadline, SignalActionItem, SignalTopic})

	defaultDraft := defaultBuilder.Build(extracted, ToneBusiness, nil)
	questionDraft := questionFirst.Build(extracted, ToneBusiness, nil)

	assert.Contains(t, defaultDraft.Text, "by friday")
	assert.NotEqual(t, defaultDraft.Text, questionDraft.Text)
}

func TestBuildTopicMentionedOnce(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)
	extracted := &ExtractedContext{
		ActionItems: []string{"Please send the audit summary."},
		MainTopic:   "Audit Summary",
	}

	draft := b.Build(extracted, ToneBusiness, nil)

	// Opening names the topic, the commitment names it again, but the
	// standalone topic sentence must not fire on top of that
	assert.NotContains(t, draft.Text, "I've noted the details")
}
