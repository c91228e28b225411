package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDetectSensitiveContent(t *testing.T) {
	d := NewSensitiveTopicDetector(zap.NewNop())

	tests := []struct {
		name     string
		subject  string
		body     string
		category string
		risk     string
	}{
		{
			name:     "legal threat",
			subject:  "Notice",
			body:     "Our attorney is preparing a lawsuit over the missed deliverables.",
			category: SensitiveLegal,
			risk:     RiskCritical,
		},
		{
			name:     "personnel matter",
			subject:  "Team concern",
			body:     "I want to raise a harassment grievance against my manager.",
			category: SensitiveHR,
			risk:     RiskCritical,
		},
		{
			name:     "financial misconduct",
			subject:  "Audit findings",
			body:     "The audit surfaced accounting irregularities in the Q2 books.",
			category: SensitiveFinancial,
			risk:     RiskHigh,
		},
		{
			name:     "confidential disclosure",
			subject:  "Heads up",
			body:     "A trade secret may have been leaked to a competitor.",
			category: SensitiveConfidential,
			risk:     RiskHigh,
		},
		{
			name:     "active incident",
			subject:  "Urgent",
			body:     "We are dealing with a ransomware infection on the build servers.",
			category: SensitiveCrisis,
			risk:     RiskCritical,
		},
		{
			name:     "ethics concern",
			subject:  "Question",
			body:     "I believe there is a conflict of interest on the vendor selection.",
			category: SensitiveEthical,
			risk:     RiskHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := d.Detect(tt.subject, tt.body)

			require.True(t, analysis.Sensitive)
			assert.Equal(t, tt.category, analysis.PrimaryCategory())
			assert.Equal(t, tt.risk, analysis.RiskLevel)
			assert.True(t, analysis.ManualReview)
		})
	}
}

func TestDetectOrdinaryMailIsNotSensitive(t *testing.T) {
	d := NewSensitiveTopicDetector(zap.NewNop())

	analysis := d.Detect("Q4 Report", "Can you send the Q4 report by tomorrow?")

	assert.False(t, analysis.Sensitive)
	assert.Empty(t, analysis.Categories)
	assert.Equal(t, RiskLow, analysis.RiskLevel)
	assert.False(t, analysis.ManualReview)
}

func TestDetectKeywordsNeedWordBoundaries(t *testing.T) {
	d := NewSensitiveTopicDetector(zap.NewNop())

	// "firedrill" must not match "fired"
	analysis := d.Detect("Logistics", "The firedrill is scheduled for Thursday.")

	assert.False(t, analysis.Sensitive)
}

func TestBuildSafeReplyTones(t *testing.T) {
	b := NewReplyBuilder(zap.NewNop(), nil)
	analysis := &SensitiveAnalysis{
		Sensitive:  true,
		Categories: []string{SensitiveLegal},
	}

	tests := []struct {
		tone     Tone
		greeting string
		signOff  string
	}{
		{ToneFormal, "Dear Jordan,", "Respectfully"},
		{ToneBusiness, "Hi Jordan,", "Best regards"},
		{ToneCasual, "Hi Jordan,", "Thanks"},
	}

	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			text := b.BuildSafeReply(analysis, tt.tone, "Jordan")

			assert.True(t, strings.HasPrefix(text, tt.greeting))
			assert.True(t, strings.HasSuffix(text, tt.signOff))
			assert.Contains(t, strings.ToLower(text), "legal")
			assert.NotContains(t, text, "I'll send")
		})
	}
}
