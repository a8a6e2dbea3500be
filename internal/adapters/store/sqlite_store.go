// Package store provides MessageStore and SearchIndex implementations over
// the canonical message table. The SQL adapters bootstrap their schema on
// open; the memory adapter backs development and tests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
)

// SQLiteStore is a SQLite implementation of the MessageStore and SearchIndex
// ports. The primary lookup matches the canonical message_id; the fallback
// index matches the broader provider_message_id, which covers messages
// visible to the app before indexing completed.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the message store at dbPath.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			provider_message_id TEXT,
			payload TEXT NOT NULL,
			ingested_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_provider_message_id ON messages(provider_message_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	logger.Info("Opened SQLite message store", zap.String("path", dbPath))
	return &SQLiteStore{db: db, logger: logger}, nil
}

// GetMessage retrieves a message record by canonical id.
func (s *SQLiteStore) GetMessage(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM messages WHERE message_id = ?
	`, messageID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query message: %w", err)
	}

	return decodeMessage(payload)
}

// Search is the fallback lookup: it matches either identity of the message.
func (s *SQLiteStore) Search(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM messages
		WHERE provider_message_id = ? OR message_id = ?
		LIMIT 1
	`, messageID, messageID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search message: %w", err)
	}

	return decodeMessage(payload)
}

// PutMessage stores a message record. Used by ingestion tooling and tests;
// the assessment core itself only reads.
func (s *SQLiteStore) PutMessage(ctx context.Context, msg *core.NormalizedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO messages (message_id, provider_message_id, payload, ingested_at)
		VALUES (?, ?, ?, ?)
	`, msg.MessageID, msg.ProviderMessageID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeMessage(payload string) (*core.NormalizedMessage, error) {
	var msg core.NormalizedMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message payload: %w", err)
	}
	return &msg, nil
}
