// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/chat"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history", "conversations.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func archived(id, title string, contents ...string) chat.ArchivedConversation {
	now := time.Now()
	conv := chat.ArchivedConversation{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, c := range contents {
		role := model.TurnUser
		if i%2 == 1 {
			role = model.TurnAssistant
		}
		conv.Turns = append(conv.Turns, model.NewTurn(role, c))
	}
	return conv
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv := archived("conv_1", "Osmosis", "What is osmosis?", "Water crossing a membrane.")
	conv.RemoteSession = "42"
	if err := s.Save(ctx, conv); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "conv_1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Title != "Osmosis" || loaded.RemoteSession != "42" {
		t.Errorf("unexpected conversation: %+v", loaded)
	}
	if len(loaded.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(loaded.Turns))
	}
	if loaded.Turns[0].Role != model.TurnUser || loaded.Turns[0].Content != "What is osmosis?" {
		t.Errorf("unexpected first turn: %+v", loaded.Turns[0])
	}
	if loaded.Turns[1].Role != model.TurnAssistant {
		t.Errorf("unexpected second turn role: %v", loaded.Turns[1].Role)
	}
}

func TestSaveSkipsEmptyConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, archived("conv_empty", "")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("empty conversation was archived: %+v", metas)
	}
}

func TestResaveReplacesTurns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, archived("conv_1", "t", "one", "two")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, archived("conv_1", "t", "one", "two", "three", "four")); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load(ctx, "conv_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Turns) != 4 {
		t.Errorf("expected 4 turns after re-save, got %d", len(loaded.Turns))
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := archived("conv_old", "old", "a")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := archived("conv_new", "new", "b")

	if err := s.Save(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, newer); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(metas))
	}
	if metas[0].ID != "conv_new" {
		t.Errorf("newest conversation is %q, want conv_new", metas[0].ID)
	}
}

func TestSearchMatchesTurnContent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, archived("conv_bio", "bio", "Explain photosynthesis", "Light to sugar.")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, archived("conv_math", "math", "Integrate x squared", "x cubed over three.")); err != nil {
		t.Fatal(err)
	}

	metas, err := s.Search(ctx, "photosynthesis")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(metas) != 1 || metas[0].ID != "conv_bio" {
		t.Errorf("unexpected search result: %+v", metas)
	}

	metas, err = s.Search(ctx, "no such phrase")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Errorf("expected no matches, got %+v", metas)
	}
}

func TestDeleteCascadesTurns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, archived("conv_1", "t", "a", "b")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "conv_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Load(ctx, "conv_1"); err == nil {
		t.Error("deleted conversation still loads")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM turns`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("%d orphaned turns after delete", count)
	}
}
