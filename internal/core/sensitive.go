package core

import (
	"regexp"

	"go.uber.org/zap"
)

// Sensitive topic categories. Mail matching one of these bypasses the
// normal drafting pipeline in favor of a conservative acknowledgement.
const (
	SensitiveLegal        = "legal"
	SensitiveHR           = "hr_personnel"
	SensitiveFinancial    = "financial_sensitive"
	SensitiveConfidential = "confidential"
	SensitiveCrisis       = "crisis"
	SensitiveEthical      = "ethical"
)

// Risk levels for sensitive content
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// sensitiveRules is ordered: the first matching category becomes the
// primary one and selects the safe-mode template.
var sensitiveRules = []struct {
	category string
	re       *regexp.Regexp
}{
	{SensitiveLegal, regexp.MustCompile(`(?i)\b(lawsuit|litigation|attorney|lawyer|legal action|settlement|subpoena|injunction|deposition|breach of contract|liability|negligence)\b`)},
	{SensitiveHR, regexp.MustCompile(`(?i)\b(termination|fired|layoff|dismissal|resignation|harassment|discrimination|retaliation|grievance|disciplinary|severance|hostile work environment|wrongful termination)\b`)},
	{SensitiveFinancial, regexp.MustCompile(`(?i)\b(fraud|embezzlement|insider trading|money laundering|tax evasion|bribery|kickback|accounting irregularities|bankruptcy|insolvency)\b`)},
	{SensitiveConfidential, regexp.MustCompile(`(?i)\b(confidential|proprietary|trade secret|privileged|data breach|unauthorized disclosure|leaked)\b`)},
	{SensitiveCrisis, regexp.MustCompile(`(?i)\b(critical incident|security breach|ransomware|cyberattack|safety violation|evacuation|fatality)\b`)},
	{SensitiveEthical, regexp.MustCompile(`(?i)\b(ethics violation|conflict of interest|misconduct|corruption|nepotism|misuse of funds)\b`)},
}

var criticalCategories = map[string]struct{}{
	SensitiveLegal:  {},
	SensitiveHR:     {},
	SensitiveCrisis: {},
}

// SensitiveAnalysis reports what a sensitivity screen found in one email
type SensitiveAnalysis struct {
	Sensitive    bool
	Categories   []string
	RiskLevel    string
	ManualReview bool
}

// PrimaryCategory returns the highest-precedence matched category
func (a *SensitiveAnalysis) PrimaryCategory() string {
	if len(a.Categories) == 0 {
		return ""
	}
	return a.Categories[0]
}

// SensitiveTopicDetector screens emails for legal, HR, financial,
// confidential, crisis, and ethics content before any drafting happens
type SensitiveTopicDetector struct {
	logger *zap.Logger
}

func NewSensitiveTopicDetector(logger *zap.Logger) *SensitiveTopicDetector {
	return &SensitiveTopicDetector{logger: logger}
}

// Detect scans subject and body against the category keyword tables
func (d *SensitiveTopicDetector) Detect(subject, body string) *SensitiveAnalysis {
	full := subject + " " + body
	analysis := &SensitiveAnalysis{RiskLevel: RiskLow}

	for _, rule := range sensitiveRules {
		if rule.re.MatchString(full) {
			analysis.Sensitive = true
			analysis.Categories = append(analysis.Categories, rule.category)
		}
	}
	if !analysis.Sensitive {
		return analysis
	}

	analysis.RiskLevel = RiskHigh
	analysis.ManualReview = true
	for _, cat := range analysis.Categories {
		if _, critical := criticalCategories[cat]; critical {
			analysis.RiskLevel = RiskCritical
			break
		}
	}

	d.logger.Warn("Sensitive content detected",
		zap.Strings("categories", analysis.Categories),
		zap.String("risk_level", analysis.RiskLevel))
	return analysis
}

// safeModeBodies hold the conservative acknowledgement per category and
// tone. They commit to a review window and nothing else.
var safeModeBodies = map[string]map[Tone]string{
	SensitiveLegal: {
		ToneFormal:   "Thank you for your email regarding this legal matter. Given its sensitivity, I will review it carefully and may consult with our legal team before responding in full. You can expect a response within 24-48 hours.",
		ToneBusiness: "Thanks for your email about this legal matter. Given the sensitivity involved, I'd like to review it carefully before responding. I'll get back to you within 1-2 business days.",
		ToneCasual:   "Thanks for reaching out about this. Since it touches on legal matters, I want to make sure I respond appropriately. Let me review it and I'll get back to you.",
	},
	SensitiveHR: {
		ToneFormal:   "Thank you for bringing this personnel matter to my attention. I recognize its importance and will review it carefully with the appropriate parties. You can expect a response within 24-48 hours.",
		ToneBusiness: "Thanks for your email about this personnel matter. I understand this is important and sensitive. I'll review it carefully and coordinate with the right people, and respond within 1-2 business days.",
		ToneCasual:   "Thanks for reaching out about this. I understand it's a sensitive personnel matter. Let me review it properly and I'll get back to you.",
	},
	SensitiveFinancial: {
		ToneFormal:   "Thank you for your email regarding this financial matter. Given its sensitivity, I will review it carefully with the appropriate stakeholders and provide a response within 24-48 hours.",
		ToneBusiness: "Thanks for your email about this financial matter. Given the sensitivity, I need to review it carefully before responding. I'll get back to you within 1-2 business days.",
		ToneCasual:   "Thanks for reaching out. Since this involves sensitive financial matters, let me review it carefully and I'll get back to you.",
	},
	SensitiveConfidential: {
		ToneFormal:   "Thank you for your email. I acknowledge receipt of this confidential matter and will handle it with appropriate discretion. You can expect a response within 24-48 hours.",
		ToneBusiness: "Thanks for your email. I've received your message about this confidential matter and will handle it appropriately. I'll respond within 1-2 business days.",
		ToneCasual:   "Thanks for reaching out. I've got your message about this confidential matter and will handle it carefully. I'll get back to you.",
	},
	SensitiveCrisis: {
		ToneFormal:   "Thank you for alerting me to this urgent matter. I am treating it with the highest priority and will respond or escalate to the appropriate parties immediately.",
		ToneBusiness: "Thanks for the urgent heads up. I've received your message and am prioritizing it immediately. I'll respond or escalate as needed.",
		ToneCasual:   "Thanks for the urgent message. I've got it and am on it right away. I'll respond or escalate as needed.",
	},
	SensitiveEthical: {
		ToneFormal:   "Thank you for bringing this matter to my attention. I recognize the importance of addressing it appropriately and will review it carefully, consulting the relevant parties as needed. You can expect a response within 24-48 hours.",
		ToneBusiness: "Thanks for raising this concern. I take it seriously and will review it carefully, coordinating with others where needed. I'll get back to you within 1-2 business days.",
		ToneCasual:   "Thanks for bringing this up. I take it seriously. Let me review it properly and I'll get back to you.",
	},
}

// BuildSafeReply composes the conservative acknowledgement for a
// sensitive email: greeting, category template, reserved sign-off. It
// never repeats the sender's content back.
func (b *ReplyBuilder) BuildSafeReply(analysis *SensitiveAnalysis, tone Tone, senderName string) string {
	bodies, ok := safeModeBodies[analysis.PrimaryCategory()]
	if !ok {
		bodies = safeModeBodies[SensitiveConfidential]
	}
	body, ok := bodies[tone]
	if !ok {
		body = bodies[ToneBusiness]
	}

	signOff := "Best regards"
	switch tone {
	case ToneFormal:
		signOff = "Respectfully"
	case ToneCasual:
		signOff = "Thanks"
	}

	return b.greeting(tone, senderName) + "\n\n" + body + "\n\n" + signOff
}
