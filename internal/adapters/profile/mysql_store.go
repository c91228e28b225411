package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the SenderProfileStore
// interface, for deployments where several instances share one profile
// database
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL profile store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_profiles (
			sender_email VARCHAR(255) PRIMARY KEY,
			interactions INT NOT NULL DEFAULT 0,
			preferred_tone VARCHAR(32) NOT NULL DEFAULT '',
			first_seen TIMESTAMP NULL,
			last_seen TIMESTAMP NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// Lookup returns the profile for a sender without persisting anything
func (s *MySQLStore) Lookup(ctx context.Context, sender string) (*core.SenderProfile, error) {
	var interactions int
	var tone string
	var firstSeen, lastSeen sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT interactions, preferred_tone, first_seen, last_seen
		FROM sender_profiles
		WHERE sender_email = ?
	`, sender).Scan(&interactions, &tone, &firstSeen, &lastSeen)
	if err == sql.ErrNoRows {
		return core.NewSenderProfile(sender), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	p := &core.SenderProfile{
		Address:       sender,
		Interactions:  interactions,
		Tier:          core.TierForInteractions(interactions),
		PreferredTone: core.Tone(tone),
	}
	if firstSeen.Valid {
		p.FirstSeen = firstSeen.Time
	}
	if lastSeen.Valid {
		p.LastSeen = lastSeen.Time
	}
	return p, nil
}

// RecordInteraction increments the sender's interaction count in a
// single upsert statement and returns the updated snapshot
func (s *MySQLStore) RecordInteraction(ctx context.Context, sender string) (*core.SenderProfile, error) {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_profiles (sender_email, interactions, first_seen, last_seen)
		VALUES (?, 1, ?, ?)
		ON DUPLICATE KEY UPDATE
			interactions = interactions + 1,
			last_seen = VALUES(last_seen)
	`, sender, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}
	return s.Lookup(ctx, sender)
}

// SetPreferredTone records the tone last observed for a sender
func (s *MySQLStore) SetPreferredTone(ctx context.Context, sender string, tone core.Tone) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_profiles (sender_email, interactions, preferred_tone, first_seen, last_seen)
		VALUES (?, 0, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			preferred_tone = VALUES(preferred_tone)
	`, sender, string(tone), now, now)
	if err != nil {
		return fmt.Errorf("failed to set preferred tone: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
