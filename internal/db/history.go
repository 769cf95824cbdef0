package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"session-rag-chatbot/models"
)

// EnsureHistoryTable creates the chat history table if absent. Idempotent,
// and errors propagate rather than being swallowed so a connectivity
// failure surfaces as one.
func (db *DB) EnsureHistoryTable(ctx context.Context) error {
	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			session_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, db.historyTable)
	if _, err := db.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}

	index := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_session_idx ON %s (session_id, id)`,
		db.historyTable, db.historyTable)
	if _, err := db.pool.Exec(ctx, index); err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	return nil
}

// Messages loads a session's conversation oldest first.
func (db *DB) Messages(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	sql := fmt.Sprintf(`
		SELECT role, content, created_at
		FROM %s
		WHERE session_id = $1
		ORDER BY id`, db.historyTable)

	rows, err := db.pool.Query(ctx, sql, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Append adds one message to a session's history.
func (db *DB) Append(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	sql := fmt.Sprintf(
		`INSERT INTO %s (session_id, role, content) VALUES ($1, $2, $3)`,
		db.historyTable)
	if _, err := db.pool.Exec(ctx, sql, sessionID, role, content); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}
