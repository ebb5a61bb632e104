package store

import (
	"database/sql"
	"fmt"
)

// schema is applied on every Open. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id                  TEXT PRIMARY KEY,
		sequence            INTEGER NOT NULL UNIQUE,
		started_at          INTEGER NOT NULL,
		ended_at            INTEGER NOT NULL,
		elapsed_ms          INTEGER NOT NULL,
		total_questions     INTEGER NOT NULL,
		questions_attempted INTEGER NOT NULL,
		mastered_count      INTEGER NOT NULL,
		incorrect_count     INTEGER NOT NULL,
		completed           INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS topic_scores (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		topic_id   TEXT NOT NULL,
		title      TEXT NOT NULL,
		correct    INTEGER NOT NULL,
		total      INTEGER NOT NULL,
		PRIMARY KEY (session_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS answer_records (
		session_id    TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		position      INTEGER NOT NULL,
		question_id   TEXT NOT NULL,
		topic_id      TEXT NOT NULL,
		selected      INTEGER NOT NULL,
		correct       INTEGER NOT NULL,
		time_spent_ms INTEGER NOT NULL,
		answered_at   INTEGER NOT NULL,
		PRIMARY KEY (session_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS answer_records_question ON answer_records (question_id)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		timestamp     INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms    INTEGER NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
