package core

import (
	"time"
)

// Tone is the communication tone a reply should match. Tone detection
// happens upstream; the pipeline only consumes the label.
type Tone string

const (
	ToneBusiness Tone = "business"
	ToneCasual   Tone = "casual"
	ToneFormal   Tone = "formal"
)

// EmailCategory classifies an inbound email by its dominant signal
type EmailCategory string

const (
	CategoryQuestion   EmailCategory = "question"
	CategoryRequest    EmailCategory = "request"
	CategoryScheduling EmailCategory = "scheduling"
	CategoryUpdate     EmailCategory = "update"
	CategoryGeneral    EmailCategory = "general"
)

// Signal identifies one kind of extractable content the builder can turn
// into a reply sentence
type Signal string

const (
	SignalDeadline   Signal = "deadline"
	SignalActionItem Signal = "action_item"
	SignalQuestion   Signal = "question"
	SignalTopic      Signal = "topic"
)

// DefaultPriorityOrder is the order in which extracted signals are turned
// into reply sentences when several are present. Overridable via
// reply.priority_order.
var DefaultPriorityOrder = []Signal{SignalDeadline, SignalActionItem, SignalQuestion, SignalTopic}

// EmailInput is the immutable input to a generation request
type EmailInput struct {
	Subject       string
	Body          string
	SenderAddress string
	SenderName    string
}

// ExtractedContext holds the structured signals pulled out of one email.
// It is derived once per generation call and never mutated afterwards;
// absent signals are empty collections, not errors.
type ExtractedContext struct {
	SenderName  string
	Questions   []string
	ActionItems []string
	Deadlines   []string
	MainTopic   string
	Category    EmailCategory
}

// RelationshipTier is a coarse bucket derived from a sender's historical
// interaction count
type RelationshipTier string

const (
	TierNew        RelationshipTier = "new"
	TierOccasional RelationshipTier = "occasional"
	TierFrequent   RelationshipTier = "frequent"
)

// Tier thresholds: new < 5, occasional 5-19, frequent >= 20
const (
	occasionalThreshold = 5
	frequentThreshold   = 20
)

// TierForInteractions maps an interaction count to a relationship tier
func TierForInteractions(n int) RelationshipTier {
	switch {
	case n >= frequentThreshold:
		return TierFrequent
	case n >= occasionalThreshold:
		return TierOccasional
	default:
		return TierNew
	}
}

// SenderProfile is the persistent per-sender interaction record
type SenderProfile struct {
	Address       string
	Interactions  int
	Tier          RelationshipTier
	PreferredTone Tone
	FirstSeen     time.Time
	LastSeen      time.Time
}

// NewSenderProfile creates a fresh profile for an unseen sender
func NewSenderProfile(address string) *SenderProfile {
	now := time.Now()
	return &SenderProfile{
		Address:      address,
		Interactions: 0,
		Tier:         TierNew,
		FirstSeen:    now,
		LastSeen:     now,
	}
}

// LearningSnapshot is a read-only view of the phrase statistics mined
// from past user edits. Frequencies never go below zero.
type LearningSnapshot struct {
	AddedPhrases   map[string]int
	AvoidedPhrases map[string]int
	TimelinePrefs  map[string]int
}

// EmptyLearningSnapshot returns a snapshot with no recorded edits (cold start)
func EmptyLearningSnapshot() *LearningSnapshot {
	return &LearningSnapshot{
		AddedPhrases:   make(map[string]int),
		AvoidedPhrases: make(map[string]int),
		TimelinePrefs:  make(map[string]int),
	}
}

// ReplyDraft is the mutable text threaded through the builder, injector
// and tone adapter. Each stage owns it exclusively during its pass.
type ReplyDraft struct {
	Text       string
	Confidence float64
}

// ToneAdaptation records one phrasing change made by the tone adapter
type ToneAdaptation struct {
	Original string
	Adapted  string
	Reason   string
}

// ConfidenceLevel is the bucketed label for a confidence score
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// LevelForScore buckets a confidence score: low < 0.5,
// medium 0.5-0.75, high > 0.75
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score > 0.75:
		return ConfidenceHigh
	case score >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Generation method tags attached to every ReplyResult
const (
	MethodRulePipeline  = "rule_pipeline"
	MethodModelPolished = "model_polished"
	MethodSafeMode      = "safe_mode"
	MethodNoReplyNeeded = "no_reply_needed"
	MethodFailed        = "generation_failed"
)

// ReplyResult is the final artifact of one generation call. Immutable
// once returned.
type ReplyResult struct {
	ReplyText    string
	Confidence   float64
	Level        ConfidenceLevel
	Method       string
	Category     EmailCategory
	Profile      *SenderProfile
	ToneChange   *ToneAdaptation
	ManualReview bool
	GeneratedAt  time.Time
}

// EditType classifies how heavily the user reworked a generated reply
// before sending it
type EditType string

const (
	EditNone     EditType = "none"
	EditMinor    EditType = "minor"
	EditModerate EditType = "moderate"
	EditMajor    EditType = "major"
	EditRewrite  EditType = "rewrite"
)

// Edit classification thresholds on word-level similarity
const (
	minorSimilarity    = 0.95
	moderateSimilarity = 0.70
	majorSimilarity    = 0.40
)

// EditTypeForSimilarity buckets a similarity ratio into an edit class
func EditTypeForSimilarity(sim float64) EditType {
	switch {
	case sim >= 1.0:
		return EditNone
	case sim >= minorSimilarity:
		return EditMinor
	case sim >= moderateSimilarity:
		return EditModerate
	case sim >= majorSimilarity:
		return EditMajor
	default:
		return EditRewrite
	}
}

// EditRecord summarizes one generated-versus-sent comparison
type EditRecord struct {
	Similarity     float64
	EditType       EditType
	AddedPhrases   []string
	RemovedPhrases []string
	RecordedAt     time.Time
}
