package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ReplyBuilder drafts the content-specific body of a reply from the
// extracted context, sender relationship, and tone. It is the quality
// anchor of the pipeline: whenever a concrete value is extractable it
// commits to it and never falls back to a vague placeholder.
type ReplyBuilder struct {
	logger   *zap.Logger
	priority []Signal
}

// NewReplyBuilder creates a builder with the given signal priority order
func NewReplyBuilder(logger *zap.Logger, priority []Signal) *ReplyBuilder {
	if len(priority) == 0 {
		priority = DefaultPriorityOrder
	}
	return &ReplyBuilder{logger: logger, priority: priority}
}

// Build drafts a reply. profile may be nil (treated as a new sender);
// learned-phrase hints are injected by a later stage, so none are
// consumed here.
func (b *ReplyBuilder) Build(extracted *ExtractedContext, tone Tone, profile *SenderProfile) *ReplyDraft {
	tier := TierNew
	if profile != nil {
		tier = profile.Tier
	}

	var sentences []string
	state := &buildState{}
	for _, signal := range b.priority {
		if s := b.sentenceFor(signal, extracted, state); s != "" {
			sentences = append(sentences, s)
		}
	}

	var body string
	if len(sentences) == 0 {
		// Nothing extractable: minimal acknowledgement, no invented specifics
		body = "Thanks for your note. I've read through it and will follow up if anything needs attention."
	} else {
		body = b.opening(tier, extracted.MainTopic) + " " + strings.Join(sentences, " ")
	}

	text := b.greeting(tone, extracted.SenderName) + "\n\n" + body + "\n\n" + b.signOff(tone)

	b.logger.Debug("Built reply draft",
		zap.String("tier", string(tier)),
		zap.String("tone", string(tone)),
		zap.Int("sentences", len(sentences)))

	return &ReplyDraft{Text: text}
}

type buildState struct {
	topicNamed      bool
	actionCommitted bool
}

func (b *ReplyBuilder) sentenceFor(signal Signal, extracted *ExtractedContext, state *buildState) string {
	switch signal {
	case SignalDeadline:
		if len(extracted.Deadlines) == 0 {
			return ""
		}
		return b.deadlineSentence(extracted, state)
	case SignalActionItem:
		if len(extracted.ActionItems) == 0 || state.actionCommitted {
			return ""
		}
		return b.actionSentence(extracted, state)
	case SignalQuestion:
		if len(extracted.Questions) == 0 {
			return ""
		}
		return b.questionSentence(extracted, state)
	case SignalTopic:
		if extracted.MainTopic == "" || state.topicNamed {
			return ""
		}
		state.topicNamed = true
		return fmt.Sprintf("I've noted the details on the %s and will factor them in.", extracted.MainTopic)
	default:
		return ""
	}
}

// deadlineSentence commits to the extracted timeframe, naming the topic
// when there is one
func (b *ReplyBuilder) deadlineSentence(extracted *ExtractedContext, state *buildState) string {
	deadline := renderDeadline(extracted.Deadlines[0])
	verb := requestedVerb(extracted)
	topic := extracted.MainTopic

	if topic != "" && verb != "" {
		state.topicNamed = true
		state.actionCommitted = true
		switch verb {
		case "send":
			return fmt.Sprintf("I'll send you the %s by %s.", topic, deadline)
		case "share":
			return fmt.Sprintf("I'll share the %s with you by %s.", topic, deadline)
		case "review":
			return fmt.Sprintf("I'll review the %s by %s.", topic, deadline)
		default:
			return fmt.Sprintf("I'll get the %s over to you by %s.", topic, deadline)
		}
	}
	if topic != "" {
		state.topicNamed = true
		return fmt.Sprintf("I'll have an answer on the %s for you by %s.", topic, deadline)
	}
	return fmt.Sprintf("I'll take care of this by %s.", deadline)
}

func (b *ReplyBuilder) actionSentence(extracted *ExtractedContext, state *buildState) string {
	verb := requestedVerb(extracted)
	topic := extracted.MainTopic
	state.actionCommitted = true

	if topic != "" && !state.topicNamed {
		state.topicNamed = true
		switch verb {
		case "send":
			return fmt.Sprintf("I'll send you the %s.", topic)
		case "share":
			return fmt.Sprintf("I'll share the %s with you.", topic)
		case "review":
			return fmt.Sprintf("I'll review the %s and confirm once it's done.", topic)
		default:
			return fmt.Sprintf("I'll pull together the %s you asked for.", topic)
		}
	}
	return "I'll take care of your request and confirm once it's done."
}

func (b *ReplyBuilder) questionSentence(extracted *ExtractedContext, state *buildState) string {
	if len(extracted.Questions) > 1 {
		return "I'll go through each of your questions and answer them point by point."
	}
	if state.actionCommitted || state.topicNamed {
		// The concrete commitment above already addresses it
		return "That should cover what you asked about."
	}
	if extracted.MainTopic != "" {
		state.topicNamed = true
		return fmt.Sprintf("I'll get you a clear answer on the %s.", extracted.MainTopic)
	}
	return "I'll get you a clear answer on that."
}

// requestedVerb picks the action verb the sender asked for, scanning
// questions and action items
func requestedVerb(extracted *ExtractedContext) string {
	text := strings.ToLower(strings.Join(extracted.Questions, " ") + " " + strings.Join(extracted.ActionItems, " "))
	for _, verb := range []string{"send", "share", "review", "provide", "forward", "confirm"} {
		if strings.Contains(text, verb) {
			if verb == "provide" || verb == "forward" {
				return "send"
			}
			return verb
		}
	}
	return ""
}

// renderDeadline turns a normalized deadline back into prose ("EOD" is
// kept as is, everything else stays lowercase)
func renderDeadline(deadline string) string {
	if deadline == "ASAP" {
		return "end of day"
	}
	return deadline
}

func (b *ReplyBuilder) greeting(tone Tone, name string) string {
	if name == "" {
		name = "there"
	}
	if tone == ToneFormal {
		return "Dear " + name + ","
	}
	return "Hi " + name + ","
}

// opening picks the first clause by relationship tier: professional for
// new senders, warmer as the history grows
func (b *ReplyBuilder) opening(tier RelationshipTier, topic string) string {
	switch tier {
	case TierFrequent:
		if topic != "" {
			return fmt.Sprintf("Always good to hear from you. Thanks for the note about the %s.", topic)
		}
		return "Always good to hear from you."
	case TierOccasional:
		if topic != "" {
			return fmt.Sprintf("Thanks for your email about the %s.", topic)
		}
		return "Thanks for your email."
	default:
		if topic != "" {
			return fmt.Sprintf("Thank you for reaching out about the %s.", topic)
		}
		return "Thank you for reaching out."
	}
}

func (b *ReplyBuilder) signOff(tone Tone) string {
	switch tone {
	case ToneFormal:
		return "Best regards"
	case ToneCasual:
		return "Thanks!"
	default:
		return "Best"
	}
}
