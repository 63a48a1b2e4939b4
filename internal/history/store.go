// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history archives study conversations to a local sqlite database.
//
// Conversations are saved as immutable snapshots when the user clears the
// chat or quits. The archive is purely local; nothing here talks to the
// platform.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go sqlite driver

	"github.com/jeranaias/studyhall-tui/internal/chat"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// schemaVersion tracks the database layout via PRAGMA user_version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	remote_session TEXT NOT NULL DEFAULT '',
	turn_count     INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	notice          INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, seq);
`

// Store is a sqlite-backed conversation archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) the archive database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// sqlite handles one writer at a time; keep the pool at a single
	// connection to avoid SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set schema version: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// WRITES
// =============================================================================

// Save archives a conversation snapshot. Empty conversations are skipped.
// Re-saving the same conversation id replaces its turns.
func (s *Store) Save(ctx context.Context, conv chat.ArchivedConversation) error {
	if len(conv.Turns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, title, remote_session, turn_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			remote_session = excluded.remote_session,
			turn_count = excluded.turn_count,
			updated_at = excluded.updated_at`,
		conv.ID, conv.Title, conv.RemoteSession, len(conv.Turns), conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to replace turns: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO turns (id, conversation_id, seq, role, content, notice, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare turn insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range conv.Turns {
		notice := 0
		if t.Notice {
			notice = 1
		}
		if _, err := stmt.ExecContext(ctx, t.ID, conv.ID, i, string(t.Role), t.Content, notice, t.Timestamp); err != nil {
			return fmt.Errorf("failed to save turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// Delete removes an archived conversation and its turns.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// List returns archived conversation metadata, newest first.
func (s *Store) List(ctx context.Context) ([]model.ConversationMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, turn_count, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	return scanMetas(rows)
}

// Search returns metadata for conversations whose turns contain term.
func (s *Store) Search(ctx context.Context, term string) ([]model.ConversationMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT c.id, c.title, c.turn_count, c.created_at, c.updated_at
		FROM conversations c
		JOIN turns t ON t.conversation_id = c.id
		WHERE t.content LIKE ?
		ORDER BY c.updated_at DESC`,
		"%"+term+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	defer rows.Close()

	return scanMetas(rows)
}

// Load returns a full archived conversation.
func (s *Store) Load(ctx context.Context, id string) (*chat.ArchivedConversation, error) {
	conv := &chat.ArchivedConversation{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, remote_session, created_at, updated_at
		FROM conversations WHERE id = ?`, id).
		Scan(&conv.ID, &conv.Title, &conv.RemoteSession, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, notice, created_at
		FROM turns WHERE conversation_id = ?
		ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t      model.Turn
			role   string
			notice int
			ts     time.Time
		)
		if err := rows.Scan(&t.ID, &role, &t.Content, &notice, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Role = model.TurnRole(role)
		t.Notice = notice != 0
		t.Timestamp = ts
		turn := t
		conv.Turns = append(conv.Turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}

	return conv, nil
}

// scanMetas reads conversation metadata rows.
func scanMetas(rows *sql.Rows) ([]model.ConversationMeta, error) {
	var metas []model.ConversationMeta
	for rows.Next() {
		var m model.ConversationMeta
		if err := rows.Scan(&m.ID, &m.Title, &m.TurnCount, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}
	return metas, nil
}
