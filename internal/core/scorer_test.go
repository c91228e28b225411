package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScoreRewardsSpecificReplies(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())
	extracted := &ExtractedContext{MainTopic: "Q4 Report"}

	text := "Hi Sarah,\n\nThank you for reaching out about the Q4 Report. I'll send you the Q4 Report by tomorrow.\n\nBest"
	score := s.Score(text, extracted)

	// 0.5 base, +0.1 timeline, +0.1 commitment, +0.1 topic reference
	assert.InDelta(t, 0.8, score, 0.001)
	assert.Equal(t, ConfidenceHigh, LevelForScore(score))
}

func TestScorePenalizesFillerAndVagueness(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())

	text := "Hi,\n\nI'll get back to you soon.\n\nBest"
	score := s.Score(text, &ExtractedContext{})

	// 0.5 base, -0.15 filler, -0.15 vague timeline
	assert.InDelta(t, 0.2, score, 0.001)
	assert.Equal(t, ConfidenceLow, LevelForScore(score))
}

func TestScoreDeferralIsNotACommitment(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())

	committed := s.Score("I'll send the draft today.", &ExtractedContext{})
	deferred := s.Score("I will follow up on the draft today.", &ExtractedContext{})

	assert.Greater(t, committed, deferred)
}

func TestScoreSignOffExclamationIsNotEnthusiasm(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())

	casual := s.Score("Hi,\n\nI'll send the report by tomorrow.\n\nThanks!", &ExtractedContext{})
	business := s.Score("Hi,\n\nI'll send the report by tomorrow.\n\nBest", &ExtractedContext{})

	// 0.5 base, +0.1 timeline, +0.1 commitment for both
	assert.InDelta(t, 0.7, casual, 0.001)
	assert.Equal(t, business, casual)
}

func TestScoreStaysInBounds(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"all penalties", "I'll get back to you soon, I'll circle back later and keep you posted."},
		{"all rewards", "Great question! I'll send the Q4 Report by tomorrow, today if I can."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := s.Score(tt.text, &ExtractedContext{MainTopic: "Q4 Report"})
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	s := NewConfidenceScorer(zap.NewNop())
	extracted := &ExtractedContext{MainTopic: "Budget"}
	text := "Hi,\n\nI'll review the Budget by Monday.\n\nBest"

	assert.Equal(t, s.Score(text, extracted), s.Score(text, extracted))
}

func TestLevelForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  ConfidenceLevel
	}{
		{0.0, ConfidenceLow},
		{0.49, ConfidenceLow},
		{0.5, ConfidenceMedium},
		{0.75, ConfidenceMedium},
		{0.76, ConfidenceHigh},
		{1.0, ConfidenceHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %.2f", tt.score)
	}
}
