package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/smart-reply/internal/core"
	"github.com/mikey/smart-reply/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// SMTPIngest accepts inbound email over SMTP, runs the reply pipeline,
// and writes each generated reply as a JSON document into the outbox
// directory. A weighted semaphore caps how many generations run at once
// so a mail burst cannot exhaust the process.
type SMTPIngest struct {
	service       *core.ReplyService
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	listenAddr    string
	outboxDir     string
	maxBodySize   int
	server        *smtp.Server
	sem           *semaphore.Weighted
}

// NewSMTPIngest creates a new SMTP ingest service
func NewSMTPIngest(
	service *core.ReplyService,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	listenAddr string,
	outboxDir string,
	maxBodySize int,
	maxConcurrent int,
) *SMTPIngest {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &SMTPIngest{
		service:       service,
		logger:        logger,
		textProcessor: textProcessor,
		listenAddr:    listenAddr,
		outboxDir:     outboxDir,
		maxBodySize:   maxBodySize,
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Start starts the SMTP server
func (i *SMTPIngest) Start() error {
	if err := os.MkdirAll(i.outboxDir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox directory: %w", err)
	}

	i.server = smtp.NewServer(&smtpBackend{ingest: i})
	i.server.Addr = i.listenAddr
	i.server.Domain = "localhost"
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	i.server.MaxRecipients = 50
	i.server.AllowInsecureAuth = true

	i.logger.Info("SMTP ingest starting", zap.String("address", i.listenAddr))

	go func() {
		if err := i.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				i.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (i *SMTPIngest) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// ProcessEmail runs the pipeline for one email directly, bypassing SMTP
func (i *SMTPIngest) ProcessEmail(ctx context.Context, email *core.EmailInput) *core.ReplyResult {
	email.Body = i.textProcessor.ProcessText(email.Body, i.maxBodySize)
	return i.service.GenerateReply(ctx, email, "")
}

// outboxRecord is the JSON document written for each generated reply
type outboxRecord struct {
	Sender       string    `json:"sender"`
	Subject      string    `json:"subject"`
	ReplyText    string    `json:"reply_text"`
	Confidence   float64   `json:"confidence"`
	Level        string    `json:"level"`
	Method       string    `json:"method"`
	Category     string    `json:"category,omitempty"`
	Tier         string    `json:"sender_tier,omitempty"`
	ManualReview bool      `json:"manual_review,omitempty"`
	Generated    time.Time `json:"generated_at"`
}

// writeOutbox persists one result. File names carry a timestamp so
// repeated mail from a sender never overwrites earlier drafts.
func (i *SMTPIngest) writeOutbox(email *core.EmailInput, result *core.ReplyResult) error {
	record := outboxRecord{
		Sender:       email.SenderAddress,
		Subject:      email.Subject,
		ReplyText:    result.ReplyText,
		Confidence:   result.Confidence,
		Level:        string(result.Level),
		Method:       result.Method,
		Category:     string(result.Category),
		ManualReview: result.ManualReview,
		Generated:    result.GeneratedAt,
	}
	if result.Profile != nil {
		record.Tier = string(result.Profile.Tier)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outbox record: %w", err)
	}

	name := fmt.Sprintf("%d_%s.json",
		result.GeneratedAt.UnixNano(),
		sanitizeFileName(email.SenderAddress))
	path := filepath.Join(i.outboxDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write outbox record: %w", err)
	}

	i.logger.Debug("Wrote reply to outbox", zap.String("path", path))
	return nil
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *SMTPIngest
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *SMTPIngest
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed here)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the email data
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingest.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.ingest.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	body, err := io.ReadAll(msg.Body)
	if err != nil {
		s.ingest.logger.Error("Failed to read message body", zap.Error(err))
		return err
	}

	email := &core.EmailInput{
		Subject:       msg.Header.Get("Subject"),
		Body:          string(body),
		SenderAddress: s.sender,
	}
	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		email.SenderName = addr.Name
		if email.SenderAddress == "" {
			email.SenderAddress = addr.Address
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Admission gate: wait for a generation slot or give up with the
	// context
	if err := s.ingest.sem.Acquire(ctx, 1); err != nil {
		s.ingest.logger.Warn("Rejecting email, no generation slot available",
			zap.String("sender", email.SenderAddress))
		return err
	}
	defer s.ingest.sem.Release(1)

	result := s.ingest.ProcessEmail(ctx, email)
	if result.Method == core.MethodNoReplyNeeded {
		s.ingest.logger.Info("No reply needed", zap.String("sender", email.SenderAddress))
		return nil
	}

	if err := s.ingest.writeOutbox(email, result); err != nil {
		s.ingest.logger.Error("Failed to persist generated reply", zap.Error(err))
		return err
	}
	return nil
}

// Logout handles session termination
func (s *smtpSession) Logout() error {
	return nil
}
