package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
)

// MySQLStore is a MySQL implementation of the MessageStore and SearchIndex
// ports, for deployments that share the wider system's MySQL instance.
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and bootstraps the message table.
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			message_id VARCHAR(255) PRIMARY KEY,
			provider_message_id VARCHAR(255),
			payload MEDIUMTEXT NOT NULL,
			ingested_at TIMESTAMP,
			INDEX idx_provider_message_id (provider_message_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Opened MySQL message store")
	return &MySQLStore{db: db, logger: logger}, nil
}

// GetMessage retrieves a message record by canonical id.
func (s *MySQLStore) GetMessage(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
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
func (s *MySQLStore) Search(ctx context.Context, messageID string) (*core.NormalizedMessage, error) {
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

// PutMessage stores a message record.
func (s *MySQLStore) PutMessage(ctx context.Context, msg *core.NormalizedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (message_id, provider_message_id, payload, ingested_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE provider_message_id = VALUES(provider_message_id),
			payload = VALUES(payload), ingested_at = VALUES(ingested_at)
	`, msg.MessageID, msg.ProviderMessageID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
