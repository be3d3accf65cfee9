package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
func InitSchema(db *sql.DB) error {
	if err := createCoursesTable(db); err != nil {
		return err
	}
	if err := createChatTurnsTable(db); err != nil {
		return err
	}
	return createChatSummariesTable(db)
}

func createCoursesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS courses (
		doc_id TEXT PRIMARY KEY,
		college TEXT NOT NULL,
		department TEXT NOT NULL,
		number TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		tag TEXT,
		pre_reqs TEXT,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_courses_tag_number ON courses(tag, number);
	CREATE INDEX IF NOT EXISTS idx_courses_department ON courses(department);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create courses table: %w", err)
	}

	return nil
}

func createChatTurnsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		role TEXT CHECK(role IN ('user', 'bot')) NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_turns_user ON chat_turns(user_id, id);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create chat_turns table: %w", err)
	}

	return nil
}

func createChatSummariesTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS chat_summaries (
		user_id TEXT PRIMARY KEY,
		summary TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create chat_summaries table: %w", err)
	}

	return nil
}
