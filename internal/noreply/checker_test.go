package noreply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsNoReply(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())

	tests := []struct {
		name    string
		from    string
		subject string
		body    string
		want    bool
	}{
		{
			name: "noreply address",
			from: "noreply@shop.example",
			want: true,
		},
		{
			name: "no-reply with dash",
			from: "no-reply@bank.example",
			want: true,
		},
		{
			name: "donotreply address",
			from: "DoNotReply@corp.example",
			want: true,
		},
		{
			name: "notifications address",
			from: "notifications@github.example",
			want: true,
		},
		{
			name: "mailer daemon",
			from: "mailer-daemon@mx.example",
			want: true,
		},
		{
			name:    "out of office subject",
			from:    "colleague@corp.example",
			subject: "Automatic Reply: Out of Office",
			want:    true,
		},
		{
			name: "automated body marker",
			from: "updates@service.example",
			body: "This is an automated message. Please do not reply.",
			want: true,
		},
		{
			name:    "regular correspondence",
			from:    "sarah@client.example",
			subject: "Q4 Report",
			body:    "Can you send the report by tomorrow?",
			want:    false,
		},
		{
			name: "reply-ish name is not noreply",
			from: "replyto.sarah@client.example",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsNoReply(tt.from, tt.subject, tt.body))
		})
	}
}

func TestIsNoReplySuppressesBroadcastMail(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())

	tests := []struct {
		name    string
		from    string
		subject string
		body    string
		want    bool
	}{
		{
			name:    "newsletter with unsubscribe footer",
			from:    "newsletter@vendor.example",
			subject: "Your Weekly Digest",
			body:    "Here is what happened this week. Click here to unsubscribe from this list.",
			want:    true,
		},
		{
			name:    "marketing promotion",
			from:    "deals@shop.example",
			subject: "Exclusive offer inside",
			body:    "Shop now and save 40% before Friday.",
			want:    true,
		},
		{
			name:    "order confirmation",
			from:    "orders@shop.example",
			subject: "Order confirmation #8841",
			body:    "Payment received. Your purchase ships Monday.",
			want:    true,
		},
		{
			name:    "security alert",
			from:    "security@github.example",
			subject: "Security alert: unusual login",
			body:    "We detected a sign-in from a new device.",
			want:    true,
		},
		{
			name:    "human asking about an invoice",
			from:    "billing@client.example",
			subject: "Invoice 4412",
			body:    "Could you send over the invoice by Friday?",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsNoReply(tt.from, tt.subject, tt.body))
		})
	}
}

func TestCustomPatterns(t *testing.T) {
	c := NewChecker([]string{`@marketing\.example$`}, zap.NewNop())

	assert.True(t, c.IsNoReply("deals@marketing.example", "", ""))
	assert.False(t, c.IsNoReply("deals@sales.example", "", ""))
}

func TestInvalidPatternSkipped(t *testing.T) {
	c := NewChecker([]string{`[unclosed`}, zap.NewNop())

	assert.False(t, c.IsNoReply("someone@ok.example", "Hello", "Hi"))
}
