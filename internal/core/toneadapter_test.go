package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAdaptSchedulingOffersTimeSlots(t *testing.T) {
	a := NewToneAdapter(zap.NewNop())
	extracted := &ExtractedContext{Category: CategoryScheduling}
	text := "Hi Alex,\n\nThanks for your email about the kickoff.\n\nBest"

	adapted, confidence, record := a.Adapt(text, 0.5, extracted, ToneBusiness, nil)

	assert.Contains(t, adapted, "work for you?")
	assert.InDelta(t, 0.55, confidence, 0.001)
	assert.NotNil(t, record)
	assert.Equal(t, text, record.Original)
}

func TestAdaptSoftensForFrequentSenders(t *testing.T) {
	a := NewToneAdapter(zap.NewNop())
	text := "Hi Alex,\n\nThank you for reaching out about the renewal. I will send the terms by Friday.\n\nBest"

	adapted, _, record := a.Adapt(text, 0.7, &ExtractedContext{Category: CategoryRequest}, ToneBusiness, buildProfile(30))

	assert.Contains(t, adapted, "Thanks for reaching out")
	assert.Contains(t, adapted, "I'll send")
	assert.NotNil(t, record)
}

func TestAdaptKeepsFormalDraftsFormal(t *testing.T) {
	a := NewToneAdapter(zap.NewNop())
	text := "Dear Dr. Chen,\n\nI'll review the results by Monday.\n\nThanks!"

	adapted, _, _ := a.Adapt(text, 0.7, &ExtractedContext{Category: CategoryQuestion}, ToneFormal, nil)

	assert.NotContains(t, adapted, "Thanks!")
	assert.Contains(t, adapted, "Best regards")
}

func TestAdaptPenalizesLowInformationReplies(t *testing.T) {
	a := NewToneAdapter(zap.NewNop())
	text := "Hi there,\n\nThanks for your note. I've read through it and will follow up if anything needs attention.\n\nBest"

	_, confidence, _ := a.Adapt(text, 0.5, &ExtractedContext{Category: CategoryGeneral}, ToneBusiness, nil)

	assert.InDelta(t, 0.45, confidence, 0.001)
}

func TestAdaptNoChangeReturnsNilRecord(t *testing.T) {
	a := NewToneAdapter(zap.NewNop())
	text := "Hi Sarah,\n\nI'll send you the Q4 Report by tomorrow.\n\nBest"

	adapted, confidence, record := a.Adapt(text, 0.8, &ExtractedContext{Category: CategoryRequest}, ToneBusiness, nil)

	assert.Equal(t, text, adapted)
	assert.InDelta(t, 0.8, confidence, 0.001)
	assert.Nil(t, record)
}
