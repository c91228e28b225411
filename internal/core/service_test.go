package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProfileStore keeps profiles in a map and can be forced to fail
type fakeProfileStore struct {
	interactions map[string]int
	tones        map[string]Tone
	failWith     error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		interactions: make(map[string]int),
		tones:        make(map[string]Tone),
	}
}

func (f *fakeProfileStore) Lookup(ctx context.Context, sender string) (*SenderProfile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p := NewSenderProfile(sender)
	p.Interactions = f.interactions[sender]
	p.Tier = TierForInteractions(p.Interactions)
	p.PreferredTone = f.tones[sender]
	return p, nil
}

func (f *fakeProfileStore) RecordInteraction(ctx context.Context, sender string) (*SenderProfile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.interactions[sender]++
	return f.Lookup(ctx, sender)
}

func (f *fakeProfileStore) SetPreferredTone(ctx context.Context, sender string, tone Tone) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.tones[sender] = tone
	return nil
}

// fakePolisher returns a fixed rewrite or an error
type fakePolisher struct {
	out      string
	failWith error
}

func (f *fakePolisher) PolishDraft(ctx context.Context, draft string, extracted *ExtractedContext) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.out, nil
}

// fakeNoReplyChecker flags anything from a no-reply address
type fakeNoReplyChecker struct{}

func (fakeNoReplyChecker) IsNoReply(from, subject, body string) bool {
	return strings.HasPrefix(from, "noreply@")
}

func newTestService(profiles SenderProfileStore, learning LearningStore, polisher DraftPolisher) *ReplyService {
	logger := zap.NewNop()
	return NewReplyService(
		NewContextExtractor(logger),
		NewReplyBuilder(logger, nil),
		NewPhraseInjector(logger, 3),
		NewConfidenceScorer(logger),
		NewToneAdapter(logger),
		NewEditTracker(learning, logger),
		NewSensitiveTopicDetector(logger),
		profiles,
		learning,
		polisher,
		fakeNoReplyChecker{},
		logger,
		true,
		ToneBusiness,
	)
}

func TestGenerateReplyCommitsToSpecifics(t *testing.T) {
	svc := newTestService(newFakeProfileStore(), newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Q4 Report - When ready?",
		Body:          "Can you send the Q4 report by tomorrow?",
		SenderAddress: "sarah@client.com",
		SenderName:    "Sarah",
	}, "")

	assert.Equal(t, MethodRulePipeline, result.Method)
	assert.Equal(t, CategoryRequest, result.Category)
	assert.Contains(t, result.ReplyText, "Q4 Report")
	assert.Contains(t, result.ReplyText, "by tomorrow")
	assert.Contains(t, result.ReplyText, "I'll send")
	assert.NotContains(t, result.ReplyText, "I'll get back to you")
	assert.Equal(t, ConfidenceHigh, result.Level)
}

func TestGenerateReplyVagueEmailScoresLower(t *testing.T) {
	svc := newTestService(newFakeProfileStore(), newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Checking in",
		Body:          "Just checking in on things.",
		SenderAddress: "pat@vendor.com",
	}, "")

	assert.Equal(t, MethodRulePipeline, result.Method)
	assert.LessOrEqual(t, result.Confidence, 0.7)
}

func TestGenerateReplyNoReplyNeeded(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := newTestService(profiles, newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Your order has shipped",
		Body:          "Tracking number enclosed.",
		SenderAddress: "noreply@shop.example",
	}, "")

	assert.Equal(t, MethodNoReplyNeeded, result.Method)
	assert.Empty(t, result.ReplyText)
	assert.Empty(t, profiles.interactions, "automated mail must not create profiles")
}

func TestGenerateReplyWarmsUpWithHistory(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.interactions["regular@partner.com"] = 24
	svc := newTestService(profiles, newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Renewal Terms",
		Body:          "Could you share the renewal terms this week?",
		SenderAddress: "regular@partner.com",
	}, "")

	require.NotNil(t, result.Profile)
	assert.Equal(t, TierFrequent, result.Profile.Tier)
	assert.Equal(t, 25, result.Profile.Interactions)
	assert.Contains(t, result.ReplyText, "Always good to hear from you")
}

func TestGenerateReplyRecordsExplicitTone(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := newTestService(profiles, newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Contract Review",
		Body:          "Please review the attached contract.",
		SenderAddress: "legal@client.com",
	}, ToneFormal)

	assert.Equal(t, ToneFormal, profiles.tones["legal@client.com"])
	assert.True(t, strings.HasPrefix(result.ReplyText, "Dear "))
}

func TestGenerateReplyUsesPreferredTone(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.tones["casual@friend.com"] = ToneCasual
	svc := newTestService(profiles, newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Lunch plans",
		Body:          "Want to grab lunch next week?",
		SenderAddress: "casual@friend.com",
	}, "")

	assert.True(t, strings.HasSuffix(result.ReplyText, "Thanks!"))
}

func TestGenerateReplySurvivesProfileStoreFailure(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.failWith = errors.New("connection refused")
	svc := newTestService(profiles, newFakeLearningStore(), nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Invoice 4412",
		Body:          "Please send the invoice by Friday.",
		SenderAddress: "billing@client.com",
	}, "")

	assert.Equal(t, MethodRulePipeline, result.Method)
	require.NotNil(t, result.Profile)
	assert.Equal(t, TierNew, result.Profile.Tier)
	assert.NotEmpty(t, result.ReplyText)
}

func TestGenerateReplyAppliesLearnedPhrases(t *testing.T) {
	learning := newFakeLearningStore()
	learning.timeline["by eod"] = 5
	svc := newTestService(newFakeProfileStore(), learning, nil)

	// A vague email produces no extracted deadline, so the builder has
	// nothing concrete; the learned preference must not fire on drafts
	// without a vague timeline either
	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Quarterly numbers",
		Body:          "Can you send the quarterly numbers by tomorrow?",
		SenderAddress: "cfo@client.com",
	}, "")

	assert.NotContains(t, result.ReplyText, "soon")
}

func TestGenerateReplyPolishSuccess(t *testing.T) {
	polisher := &fakePolisher{out: "Hi Sarah,\n\nI'll send you the Q4 Report by tomorrow, count on it.\n\nBest"}
	svc := newTestService(newFakeProfileStore(), newFakeLearningStore(), polisher)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Q4 Report",
		Body:          "Can you send the Q4 report by tomorrow?",
		SenderAddress: "sarah@client.com",
	}, "")

	assert.Equal(t, MethodModelPolished, result.Method)
	assert.Contains(t, result.ReplyText, "count on it")
	assert.Equal(t, ConfidenceHigh, result.Level)
}

func TestGenerateReplyPolishFailureKeepsDraft(t *testing.T) {
	polisher := &fakePolisher{failWith: errors.New("rate limited")}
	svc := newTestService(newFakeProfileStore(), newFakeLearningStore(), polisher)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Q4 Report",
		Body:          "Can you send the Q4 report by tomorrow?",
		SenderAddress: "sarah@client.com",
	}, "")

	assert.Equal(t, MethodRulePipeline, result.Method)
	assert.Contains(t, result.ReplyText, "by tomorrow")
}

func TestGenerateReplySensitiveTopicUsesSafeMode(t *testing.T) {
	polisher := &fakePolisher{out: "polished text"}
	svc := newTestService(newFakeProfileStore(), newFakeLearningStore(), polisher)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Missed deliverables",
		Body:          "Our attorney advises we pursue legal action unless this is resolved.",
		SenderAddress: "counsel@client.com",
	}, "")

	assert.Equal(t, MethodSafeMode, result.Method)
	assert.InDelta(t, 0.70, result.Confidence, 0.001)
	assert.Equal(t, ConfidenceMedium, result.Level)
	assert.True(t, result.ManualReview)
	assert.Contains(t, strings.ToLower(result.ReplyText), "review")
	// the conservative draft is never sent to the model for polish
	assert.NotContains(t, result.ReplyText, "polished text")
	assert.NotContains(t, result.ReplyText, "deliverables")
}

func TestGenerateReplySensitiveTopicSkipsLearnedPhrases(t *testing.T) {
	learning := newFakeLearningStore()
	learning.added["great question!"] = 10
	svc := newTestService(newFakeProfileStore(), learning, nil)

	result := svc.GenerateReply(context.Background(), &EmailInput{
		Subject:       "Grievance",
		Body:          "Can we talk about the harassment complaint I filed?",
		SenderAddress: "employee@corp.com",
	}, "")

	assert.Equal(t, MethodSafeMode, result.Method)
	assert.NotContains(t, result.ReplyText, "Great question!")
}

func TestGenerateReplyTierMonotonicity(t *testing.T) {
	profiles := newFakeProfileStore()
	svc := newTestService(profiles, newFakeLearningStore(), nil)
	email := &EmailInput{
		Subject:       "Weekly sync notes",
		Body:          "Could you share the notes from the sync?",
		SenderAddress: "peer@team.com",
	}

	var lastTier RelationshipTier
	tierRank := map[RelationshipTier]int{TierNew: 0, TierOccasional: 1, TierFrequent: 2}
	lastTier = TierNew
	for i := 0; i < 25; i++ {
		result := svc.GenerateReply(context.Background(), email, "")
		require.NotNil(t, result.Profile)
		assert.GreaterOrEqual(t, tierRank[result.Profile.Tier], tierRank[lastTier],
			"tier must never move backwards as history grows")
		lastTier = result.Profile.Tier
	}
	assert.Equal(t, TierFrequent, lastTier)
}
