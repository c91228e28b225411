package noreply

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// defaultAddressRe matches the automated-sender local parts that should
// never receive a reply
var defaultAddressRe = regexp.MustCompile(`(?i)^(no[-._]?reply|do[-._]?not[-._]?reply|notifications?|mailer-daemon|postmaster|bounce[s]?)(@|\+|$)`)

// defaultSubjectMarkers flag automated mail by subject content
var defaultSubjectMarkers = []string{
	"out of office",
	"automatic reply",
	"auto-reply",
	"autoreply",
	"delivery status notification",
	"undeliverable",
	"unsubscribe confirmation",
}

// defaultBodyMarkers flag automated mail by body content
var defaultBodyMarkers = []string{
	"this is an automated message",
	"do not reply to this email",
	"please do not reply",
	"this mailbox is not monitored",
}

// suppressRules flag broadcast mail that never warrants a reply:
// security alerts are acted on in the originating platform, receipts
// are filed, and marketing or newsletter content is read or discarded.
// Checked against subject and body together.
var suppressRules = []struct {
	reason string
	re     *regexp.Regexp
}{
	{"security_alert", regexp.MustCompile(`(?i)\b(security alert|suspicious activity|unusual (login|activity)|password reset)\b`)},
	{"transactional", regexp.MustCompile(`(?i)\b(order confirmation|payment (received|confirmed)|transaction (complete|successful)|receipt for your|your purchase)\b`)},
	{"marketing", regexp.MustCompile(`(?i)\b(exclusive offer|limited time offer|special (deal|offer|promotion)|shop now|buy now|act now|unsubscribe)\b`)},
	{"newsletter", regexp.MustCompile(`(?i)\b(newsletter|(weekly|monthly) (digest|update|roundup)|in this (issue|edition))\b`)},
}

// Checker decides whether an inbound email warrants a reply at all.
// Automated senders, bounces, and auto-responses are filtered before any
// generation work happens.
type Checker struct {
	extraPatterns []*regexp.Regexp
	logger        *zap.Logger
}

// NewChecker creates a checker with optional extra sender patterns on
// top of the built-in rules. Invalid patterns are skipped with a warning.
func NewChecker(patterns []string, logger *zap.Logger) *Checker {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping invalid no-reply pattern",
					zap.String("pattern", p),
					zap.Error(err))
			}
			continue
		}
		compiled = append(compiled, re)
	}

	if len(compiled) > 0 && logger != nil {
		logger.Info("Initialized no-reply checker", zap.Int("extra_patterns", len(compiled)))
	}

	return &Checker{
		extraPatterns: compiled,
		logger:        logger,
	}
}

// IsNoReply reports whether the email is from an automated sender or is
// itself an automated message
func (c *Checker) IsNoReply(from, subject, body string) bool {
	local := from
	if at := strings.Index(from, "@"); at >= 0 {
		local = from[:at]
	}
	if defaultAddressRe.MatchString(local) || defaultAddressRe.MatchString(from) {
		c.debug("address", from)
		return true
	}
	for _, re := range c.extraPatterns {
		if re.MatchString(from) {
			c.debug("custom_pattern", from)
			return true
		}
	}

	lowerSubject := strings.ToLower(subject)
	for _, marker := range defaultSubjectMarkers {
		if strings.Contains(lowerSubject, marker) {
			c.debug("subject", from)
			return true
		}
	}

	lowerBody := strings.ToLower(body)
	for _, marker := range defaultBodyMarkers {
		if strings.Contains(lowerBody, marker) {
			c.debug("body", from)
			return true
		}
	}

	fullText := lowerSubject + " " + lowerBody
	for _, rule := range suppressRules {
		if rule.re.MatchString(fullText) {
			c.debug(rule.reason, from)
			return true
		}
	}

	return false
}

func (c *Checker) debug(reason, from string) {
	if c.logger != nil {
		c.logger.Debug("Email does not need a reply",
			zap.String("reason", reason),
			zap.String("sender", from))
	}
}
