package core

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NoReplyChecker decides whether an inbound email warrants a reply at all
type NoReplyChecker interface {
	IsNoReply(from, subject, body string) bool
}

// ReplyService is the core orchestrator. It runs the full pipeline for
// one email: no-reply screening, profile lookup, context extraction,
// drafting, learned-phrase injection, scoring, tone adaptation, and
// optional model polish.
type ReplyService struct {
	extractor       *ContextExtractor
	builder         *ReplyBuilder
	injector        *PhraseInjector
	scorer          *ConfidenceScorer
	adapter         *ToneAdapter
	tracker         *EditTracker
	sensitive       *SensitiveTopicDetector
	profiles        SenderProfileStore
	learning        LearningStore
	polisher        DraftPolisher
	noReply         NoReplyChecker
	logger          *zap.Logger
	learningEnabled bool
	defaultTone     Tone
}

// NewReplyService creates the orchestrator. polisher may be nil when no
// model-backed polish is configured.
func NewReplyService(
	extractor *ContextExtractor,
	builder *ReplyBuilder,
	injector *PhraseInjector,
	scorer *ConfidenceScorer,
	adapter *ToneAdapter,
	tracker *EditTracker,
	sensitive *SensitiveTopicDetector,
	profiles SenderProfileStore,
	learning LearningStore,
	polisher DraftPolisher,
	noReply NoReplyChecker,
	logger *zap.Logger,
	learningEnabled bool,
	defaultTone Tone,
) *ReplyService {
	if defaultTone == "" {
		defaultTone = ToneBusiness
	}
	return &ReplyService{
		extractor:       extractor,
		builder:         builder,
		injector:        injector,
		scorer:          scorer,
		adapter:         adapter,
		tracker:         tracker,
		sensitive:       sensitive,
		profiles:        profiles,
		learning:        learning,
		polisher:        polisher,
		noReply:         noReply,
		logger:          logger,
		learningEnabled: learningEnabled,
		defaultTone:     defaultTone,
	}
}

// GenerateReply runs the pipeline for one email. It never fails: any
// panic in a pipeline stage is converted into a MethodFailed result so
// one bad email cannot take down a batch.
func (s *ReplyService) GenerateReply(ctx context.Context, email *EmailInput, tone Tone) (result *ReplyResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Reply generation panicked",
				zap.Any("panic", r),
				zap.String("sender", email.SenderAddress))
			result = &ReplyResult{
				Method:      MethodFailed,
				Level:       ConfidenceLow,
				GeneratedAt: time.Now(),
			}
		}
	}()

	if s.noReply != nil && s.noReply.IsNoReply(email.SenderAddress, email.Subject, email.Body) {
		s.logger.Info("Skipping reply for automated email",
			zap.String("sender", email.SenderAddress))
		return &ReplyResult{
			Method:      MethodNoReplyNeeded,
			Confidence:  1.0,
			Level:       ConfidenceHigh,
			GeneratedAt: time.Now(),
		}
	}

	profile := s.recordInteraction(ctx, email.SenderAddress)
	if tone == "" {
		tone = s.toneFor(profile)
	} else if err := s.profiles.SetPreferredTone(ctx, email.SenderAddress, tone); err != nil {
		s.logger.Warn("Failed to record preferred tone", zap.Error(err))
	}

	extracted := s.extractor.Extract(*email)

	if s.sensitive != nil {
		if analysis := s.sensitive.Detect(email.Subject, email.Body); analysis.Sensitive {
			return s.safeModeResult(email, extracted, analysis, tone, profile)
		}
	}

	draft := s.builder.Build(extracted, tone, profile)

	text := draft.Text
	if s.learningEnabled {
		text = s.injector.Inject(text, s.snapshot(ctx), extracted)
	}

	confidence := s.scorer.Score(text, extracted)
	text, confidence, toneChange := s.adapter.Adapt(text, confidence, extracted, tone, profile)

	method := MethodRulePipeline
	if s.polisher != nil {
		if polished, err := s.polisher.PolishDraft(ctx, text, extracted); err != nil {
			s.logger.Warn("Draft polish failed, keeping deterministic draft", zap.Error(err))
		} else if polished != "" {
			text = polished
			confidence = s.scorer.Score(text, extracted)
			method = MethodModelPolished
		}
	}

	s.logger.Info("Generated reply",
		zap.String("sender", email.SenderAddress),
		zap.String("category", string(extracted.Category)),
		zap.String("method", method),
		zap.Float64("confidence", confidence))

	return &ReplyResult{
		ReplyText:   text,
		Confidence:  confidence,
		Level:       LevelForScore(confidence),
		Method:      method,
		Category:    extracted.Category,
		Profile:     profile,
		ToneChange:  toneChange,
		GeneratedAt: time.Now(),
	}
}

// safeModeResult short-circuits drafting for sensitive content: a
// conservative acknowledgement, no learned phrases, no model polish
func (s *ReplyService) safeModeResult(email *EmailInput, extracted *ExtractedContext, analysis *SensitiveAnalysis, tone Tone, profile *SenderProfile) *ReplyResult {
	const safeModeConfidence = 0.70

	text := s.builder.BuildSafeReply(analysis, tone, extracted.SenderName)
	s.logger.Info("Generated safe-mode reply",
		zap.String("sender", email.SenderAddress),
		zap.String("category", analysis.PrimaryCategory()),
		zap.String("risk_level", analysis.RiskLevel),
		zap.Bool("manual_review", analysis.ManualReview))

	return &ReplyResult{
		ReplyText:    text,
		Confidence:   safeModeConfidence,
		Level:        LevelForScore(safeModeConfidence),
		Method:       MethodSafeMode,
		Category:     extracted.Category,
		Profile:      profile,
		ManualReview: analysis.ManualReview,
		GeneratedAt:  time.Now(),
	}
}

// RecordEdit feeds one generated-versus-sent pair into the learning loop
func (s *ReplyService) RecordEdit(ctx context.Context, generated, sent string) (*EditRecord, error) {
	return s.tracker.RecordEdit(ctx, generated, sent)
}

// recordInteraction bumps the sender's history, degrading to an
// ephemeral profile when the store is unavailable so generation still
// proceeds
func (s *ReplyService) recordInteraction(ctx context.Context, sender string) *SenderProfile {
	profile, err := s.profiles.RecordInteraction(ctx, sender)
	if err != nil {
		s.logger.Warn("Profile store unavailable, using ephemeral profile",
			zap.String("sender", sender),
			zap.Error(err))
		profile = NewSenderProfile(sender)
		profile.Interactions = 1
	}
	return profile
}

// snapshot loads the phrase statistics, degrading to a cold-start empty
// snapshot on store failure
func (s *ReplyService) snapshot(ctx context.Context) *LearningSnapshot {
	snap, err := s.learning.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("Learning store unavailable, skipping phrase injection", zap.Error(err))
		return EmptyLearningSnapshot()
	}
	return snap
}

func (s *ReplyService) toneFor(profile *SenderProfile) Tone {
	if profile != nil && profile.PreferredTone != "" {
		return profile.PreferredTone
	}
	return s.defaultTone
}
