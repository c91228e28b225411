package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	maxQuestions   = 3
	maxActionItems = 3
	maxDeadlines   = 3
	maxTopicLength = 80
)

var (
	questionLeadRe = regexp.MustCompile(`(?i)^(what|when|where|who|why|how|which|can you|could you|would you|will you|do you|did you|have you|are you)\b`)

	actionRe = regexp.MustCompile(`(?i)\b(please\s+(?:send|provide|share|review|confirm|upload|submit|complete|forward)|can you|could you|would you|need(?:s)? (?:you to|your)|looking for|asking for|request(?:ing)?)\b`)

	// Sentences describing the sender's own actions are not requests
	senderActionRe = regexp.MustCompile(`(?i)\b(i will|i'll|we will|we'll|i have (?:already )?sent|has been sent|was sent)\b`)

	deadlineRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:by|before|until|due)\s+(today|tonight|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday|eod|end of (?:the )?day|end of (?:the )?week|\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\b`),
		regexp.MustCompile(`(?i)\b(asap|as soon as possible|end of day|eod|immediately|right away)\b`),
		regexp.MustCompile(`(?i)\b(today|tonight|tomorrow)\b`),
		regexp.MustCompile(`(?i)\b(?:this|next)\s+(week|month|quarter)\b`),
	}

	subjectPrefixRe = regexp.MustCompile(`(?i)^(re|fwd|fw):\s*`)

	schedulingRe = regexp.MustCompile(`(?i)\b(schedule|reschedule|scheduling|appointment|book (?:a|some) (?:time|call|meeting)|set up a (?:call|meeting)|are you (?:free|available)|can we meet|meeting request|calendar invite|availability)\b`)
	updateRe     = regexp.MustCompile(`(?i)\b(follow(?:ing)? up|checking in|status update|quick update|heads up|fyi)\b`)
)

// genericSubjects are subject lines too vague to serve as a topic
var genericSubjects = map[string]struct{}{
	"question": {}, "questions": {}, "quick question": {}, "hi": {}, "hello": {},
	"hey": {}, "update": {}, "fyi": {}, "(no subject)": {}, "no subject": {},
	"request": {}, "help": {}, "follow up": {}, "checking in": {},
}

var topicStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "for": {}, "nor": {},
	"on": {}, "at": {}, "to": {}, "from": {}, "by": {}, "of": {}, "in": {}, "with": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "do": {}, "did": {},
	"does": {}, "have": {}, "has": {}, "had": {}, "will": {}, "would": {}, "can": {},
	"could": {}, "you": {}, "your": {}, "yours": {}, "i": {}, "me": {}, "my": {}, "we": {},
	"us": {}, "our": {}, "it": {}, "its": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "just": {}, "please": {}, "thanks": {}, "thank": {}, "hi": {}, "hello": {},
	"hey": {}, "need": {}, "want": {}, "know": {}, "let": {}, "get": {}, "send": {},
	"when": {}, "what": {}, "where": {}, "who": {}, "why": {}, "how": {}, "if": {},
	"not": {}, "no": {}, "so": {}, "as": {}, "up": {}, "out": {}, "about": {},
}

// categoryRule pairs a predicate with the category it assigns. Rules are
// evaluated in order; the first match wins.
type categoryRule struct {
	name      string
	predicate func(fullText string, questions, actions []string) bool
	category  EmailCategory
}

var categoryRules = []categoryRule{
	{
		name: "scheduling_phrase",
		predicate: func(fullText string, _, _ []string) bool {
			return schedulingRe.MatchString(fullText)
		},
		category: CategoryScheduling,
	},
	{
		name: "pure_question",
		predicate: func(_ string, questions, actions []string) bool {
			return len(questions) > 0 && len(actions) == 0
		},
		category: CategoryQuestion,
	},
	{
		name: "action_request",
		predicate: func(_ string, _, actions []string) bool {
			return len(actions) > 0
		},
		category: CategoryRequest,
	},
	{
		name: "question_with_actions",
		predicate: func(_ string, questions, _ []string) bool {
			return len(questions) > 0
		},
		category: CategoryQuestion,
	},
	{
		name: "update_phrase",
		predicate: func(fullText string, _, _ []string) bool {
			return updateRe.MatchString(fullText)
		},
		category: CategoryUpdate,
	},
}

// ContextExtractor parses an email into structured signals. It is
// stateless and never fails: malformed or empty input yields empty
// collections.
type ContextExtractor struct {
	logger *zap.Logger
}

// NewContextExtractor creates a new context extractor
func NewContextExtractor(logger *zap.Logger) *ContextExtractor {
	return &ContextExtractor{logger: logger}
}

// Extract derives an ExtractedContext from an email
func (e *ContextExtractor) Extract(email EmailInput) *ExtractedContext {
	subject := strings.TrimSpace(email.Subject)
	body := strings.TrimSpace(email.Body)
	fullText := subject + " " + body

	ctx := &ExtractedContext{
		SenderName:  strings.TrimSpace(email.SenderName),
		Questions:   e.extractQuestions(body),
		ActionItems: e.extractActionItems(body),
		Deadlines:   e.extractDeadlines(fullText),
	}
	ctx.MainTopic = e.extractTopic(subject, body)
	ctx.Category = e.categorize(fullText, ctx.Questions, ctx.ActionItems)

	e.logger.Debug("Extracted email context",
		zap.String("topic", ctx.MainTopic),
		zap.String("category", string(ctx.Category)),
		zap.Int("questions", len(ctx.Questions)),
		zap.Int("action_items", len(ctx.ActionItems)),
		zap.Int("deadlines", len(ctx.Deadlines)))

	return ctx
}

// splitSentences breaks text on sentence terminators, keeping the
// terminator attached
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '?' || r == '!' || r == '\n' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func (e *ContextExtractor) extractQuestions(body string) []string {
	var questions []string
	for _, s := range splitSentences(body) {
		if len(questions) >= maxQuestions {
			break
		}
		if len(s) < 10 {
			continue
		}
		if strings.HasSuffix(s, "?") || questionLeadRe.MatchString(s) {
			questions = append(questions, s)
		}
	}
	return questions
}

func (e *ContextExtractor) extractActionItems(body string) []string {
	var actions []string
	for _, s := range splitSentences(body) {
		if len(actions) >= maxActionItems {
			break
		}
		if len(s) < 10 || !actionRe.MatchString(s) {
			continue
		}
		if senderActionRe.MatchString(s) {
			continue
		}
		if len(s) > 150 {
			s = truncateAtRune(s, 150)
		}
		actions = append(actions, s)
	}
	return actions
}

// truncateAtRune cuts at a byte limit without splitting a multi-byte
// rune at the boundary
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for !utf8.ValidString(cut) && len(cut) > 0 {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func (e *ContextExtractor) extractDeadlines(text string) []string {
	seen := make(map[string]struct{})
	var deadlines []string
	for _, re := range deadlineRes {
		for _, m := range re.FindAllString(text, -1) {
			norm := NormalizeDeadline(m)
			if norm == "" {
				continue
			}
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			deadlines = append(deadlines, norm)
			if len(deadlines) >= maxDeadlines {
				return deadlines
			}
		}
	}
	return deadlines
}

// NormalizeDeadline canonicalizes a deadline expression: prepositions are
// stripped and common expressions collapse to one spelling ("end of day"
// and "eod" both become "EOD").
func NormalizeDeadline(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, prefix := range []string{"by ", "before ", "until ", "due "} {
		s = strings.TrimPrefix(s, prefix)
	}
	switch s {
	case "eod", "end of day", "end of the day":
		return "EOD"
	case "asap", "as soon as possible", "immediately", "right away":
		return "ASAP"
	}
	return s
}

func (e *ContextExtractor) extractTopic(subject, body string) string {
	// Subject first, with reply/forward prefixes and trailing chatter removed
	cleaned := subjectPrefixRe.ReplaceAllString(subject, "")
	for subjectPrefixRe.MatchString(cleaned) {
		cleaned = subjectPrefixRe.ReplaceAllString(cleaned, "")
	}
	if idx := strings.Index(cleaned, " - "); idx > 0 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSpace(strings.TrimRight(cleaned, "?!. "))
	if len(cleaned) > maxTopicLength {
		cleaned = truncateAtRune(cleaned, maxTopicLength)
	}
	if len(cleaned) >= 3 {
		if _, generic := genericSubjects[strings.ToLower(cleaned)]; !generic {
			return cleaned
		}
		// Generic subject carries no signal, rank the body alone
		return salientKeywords("", body)
	}

	// Fall back to keyword salience over subject and body
	return salientKeywords(subject, body)
}

// salientKeywords scores words across subject and body (subject terms
// weighted higher) and returns the top two in first-appearance order
func salientKeywords(subject, body string) string {
	scores := make(map[string]int)
	order := make([]string, 0, 16)

	tally := func(text string, weight int) {
		for _, w := range strings.Fields(strings.ToLower(text)) {
			w = strings.Trim(w, ".,!?;:()[]\"'")
			if len(w) < 3 {
				continue
			}
			if _, stop := topicStopwords[w]; stop {
				continue
			}
			if _, seen := scores[w]; !seen {
				order = append(order, w)
			}
			scores[w] += weight
		}
	}
	tally(subject, 3)
	tally(body, 1)

	best := make([]string, 0, 2)
	for range [2]struct{}{} {
		top, topScore := "", 0
		for _, w := range order {
			if scores[w] > topScore {
				top, topScore = w, scores[w]
			}
		}
		if top == "" {
			break
		}
		scores[top] = 0
		best = append(best, top)
	}

	// Restore first-appearance order for readability
	if len(best) == 2 {
		for _, w := range order {
			if w == best[1] {
				best[0], best[1] = best[1], best[0]
				break
			}
			if w == best[0] {
				break
			}
		}
	}
	return strings.Join(best, " ")
}

func (e *ContextExtractor) categorize(fullText string, questions, actions []string) EmailCategory {
	for _, rule := range categoryRules {
		if rule.predicate(fullText, questions, actions) {
			return rule.category
		}
	}
	return CategoryGeneral
}
