package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the SenderProfileStore
// interface. One row per sender; the tier is derived from the
// interaction count on read.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite profile store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sender_profiles (
			sender_email TEXT PRIMARY KEY,
			interactions INTEGER NOT NULL DEFAULT 0,
			preferred_tone TEXT NOT NULL DEFAULT '',
			first_seen TIMESTAMP,
			last_seen TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Lookup returns the profile for a sender without persisting anything
func (s *SQLiteStore) Lookup(ctx context.Context, sender string) (*core.SenderProfile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT interactions, preferred_tone, first_seen, last_seen
		FROM sender_profiles
		WHERE sender_email = ?
	`, sender)
	return s.scanProfile(row, sender)
}

// RecordInteraction increments the sender's interaction count in a
// single upsert statement and returns the updated snapshot
func (s *SQLiteStore) RecordInteraction(ctx context.Context, sender string) (*core.SenderProfile, error) {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_profiles (sender_email, interactions, first_seen, last_seen)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(sender_email) DO UPDATE SET
			interactions = interactions + 1,
			last_seen = excluded.last_seen
	`, sender, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}
	return s.Lookup(ctx, sender)
}

// SetPreferredTone records the tone last observed for a sender
func (s *SQLiteStore) SetPreferredTone(ctx context.Context, sender string, tone core.Tone) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sender_profiles (sender_email, interactions, preferred_tone, first_seen, last_seen)
		VALUES (?, 0, ?, ?, ?)
		ON CONFLICT(sender_email) DO UPDATE SET
			preferred_tone = excluded.preferred_tone
	`, sender, string(tone), now, now)
	if err != nil {
		return fmt.Errorf("failed to set preferred tone: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) scanProfile(row *sql.Row, sender string) (*core.SenderProfile, error) {
	var interactions int
	var tone, firstSeen, lastSeen string

	err := row.Scan(&interactions, &tone, &firstSeen, &lastSeen)
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
	if t, err := time.Parse(time.RFC3339, firstSeen); err == nil {
		p.FirstSeen = t
	}
	if t, err := time.Parse(time.RFC3339, lastSeen); err == nil {
		p.LastSeen = t
	}
	return p, nil
}
