package learning

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the LearningStore interface.
// One row per (kind, phrase) pair holding its observed frequency.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite learning store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS phrase_stats (
			kind TEXT NOT NULL,
			phrase TEXT NOT NULL,
			frequency INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (kind, phrase)
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

// Snapshot returns the full phrase statistics. Rows with an unknown kind
// or a negative frequency are skipped with a warning rather than
// poisoning the snapshot.
func (s *SQLiteStore) Snapshot(ctx context.Context) (*core.LearningSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, phrase, frequency
		FROM phrase_stats
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phrase stats: %w", err)
	}
	defer rows.Close()

	snap := core.EmptyLearningSnapshot()
	for rows.Next() {
		var kind, phrase string
		var frequency int
		if err := rows.Scan(&kind, &phrase, &frequency); err != nil {
			s.logger.Warn("Skipping unreadable phrase stat row", zap.Error(err))
			continue
		}
		if frequency < 0 {
			s.logger.Warn("Skipping phrase stat with negative frequency",
				zap.String("kind", kind),
				zap.String("phrase", phrase))
			continue
		}
		switch kind {
		case kindAdded:
			snap.AddedPhrases[phrase] = frequency
		case kindAvoided:
			snap.AvoidedPhrases[phrase] = frequency
		case kindTimeline:
			snap.TimelinePrefs[phrase] = frequency
		default:
			s.logger.Warn("Skipping phrase stat with unknown kind", zap.String("kind", kind))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read phrase stats: %w", err)
	}
	return snap, nil
}

// CreditAddedPhrase increments the frequency of a phrase the user added
func (s *SQLiteStore) CreditAddedPhrase(ctx context.Context, phrase string) error {
	return s.credit(ctx, kindAdded, phrase)
}

// CreditAvoidedPhrase increments the frequency of a phrase the user removed
func (s *SQLiteStore) CreditAvoidedPhrase(ctx context.Context, phrase string) error {
	return s.credit(ctx, kindAvoided, phrase)
}

// CreditTimelinePhrase increments the preference count for a concrete
// timeline expression
func (s *SQLiteStore) CreditTimelinePhrase(ctx context.Context, phrase string) error {
	return s.credit(ctx, kindTimeline, phrase)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) credit(ctx context.Context, kind, phrase string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phrase_stats (kind, phrase, frequency)
		VALUES (?, ?, 1)
		ON CONFLICT(kind, phrase) DO UPDATE SET
			frequency = frequency + 1
	`, kind, phrase)
	if err != nil {
		return fmt.Errorf("failed to credit phrase: %w", err)
	}
	return nil
}
