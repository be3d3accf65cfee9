package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ChatRepository stores per-user conversation state. Appends and reads
// are last-write-wins; compaction is atomic so a concurrent append
// lands either before or after it, never inside.
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a chat repository.
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// AppendTurn adds one turn with a server-assigned timestamp.
func (r *ChatRepository) AppendTurn(ctx context.Context, userID string, role Role, message string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO chat_turns (user_id, role, message, created_at) VALUES (?, ?, ?, ?)`,
		userID, string(role), message, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to append chat turn for %s: %w", userID, err)
	}
	return nil
}

// GetHistory loads a user's turns in append order plus their summary.
// A user with no history gets an empty ChatHistory, not an error.
func (r *ChatRepository) GetHistory(ctx context.Context, userID string) (*ChatHistory, error) {
	history := &ChatHistory{}

	var summary string
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT summary FROM chat_summaries WHERE user_id = ?`, userID).Scan(&summary)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load summary for %s: %w", userID, err)
	}
	history.Summary = summary

	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT role, message, created_at FROM chat_turns WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat turns for %s: %w", userID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var role, message string
		var createdAt int64
		if err := rows.Scan(&role, &message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		history.Turns = append(history.Turns, ChatTurn{
			Role:      Role(role),
			Message:   message,
			Timestamp: time.Unix(createdAt, 0),
		})
	}
	return history, rows.Err()
}

// TurnCount returns the number of accumulated turns for a user.
func (r *ChatRepository) TurnCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_turns WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chat turns for %s: %w", userID, err)
	}
	return count, nil
}

// Compact replaces a user's accumulated turns with a summary in one
// transaction. Prior turns are not individually retrievable afterwards.
func (r *ChatRepository) Compact(ctx context.Context, userID, summary string) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin compaction for %s: %w", userID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chat_turns WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear chat turns for %s: %w", userID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_summaries (user_id, summary, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET summary = excluded.summary, updated_at = excluded.updated_at`,
		userID, summary, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to store summary for %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit compaction for %s: %w", userID, err)
	}
	return nil
}
