// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// TURN LOG TESTS
// =============================================================================

func TestAddTurnsPreservesOrder(t *testing.T) {
	c := NewConversation()
	c.AddUserTurn("one")
	c.AddAssistantTurn("two")
	c.AddUserTurn("three")

	if c.TurnCount() != 3 {
		t.Fatalf("expected 3 turns, got %d", c.TurnCount())
	}
	for i, want := range []string{"one", "two", "three"} {
		if c.Turns[i].Content != want {
			t.Errorf("turn %d is %q, want %q", i, c.Turns[i].Content, want)
		}
	}
	if c.LastTurn().Content != "three" {
		t.Errorf("LastTurn is %q", c.LastTurn().Content)
	}
	if c.LastUserTurn().Content != "three" {
		t.Errorf("LastUserTurn is %q", c.LastUserTurn().Content)
	}
}

func TestNoticeTurn(t *testing.T) {
	c := NewConversation()
	c.AddUserTurn("hello")
	notice := c.AddNoticeTurn("Error: Could not reach the study assistant.")

	if !notice.Notice {
		t.Error("notice turn not flagged")
	}
	if notice.Role != TurnAssistant {
		t.Errorf("notice role is %v, want assistant", notice.Role)
	}
}

func TestTitleFromFirstUserTurn(t *testing.T) {
	c := NewConversation()
	if c.GetTitle() != "New Conversation" {
		t.Errorf("empty title is %q", c.GetTitle())
	}

	c.AddUserTurn("Explain the Krebs cycle")
	if c.Title != "Explain the Krebs cycle" {
		t.Errorf("title is %q", c.Title)
	}

	// The title sticks to the first user turn.
	c.AddUserTurn("Something else entirely")
	if c.Title != "Explain the Krebs cycle" {
		t.Errorf("title changed to %q", c.Title)
	}
}

func TestTitleTruncation(t *testing.T) {
	c := NewConversation()
	c.AddUserTurn(strings.Repeat("x", 200))
	if len([]rune(c.Title)) > 53 {
		t.Errorf("title too long: %d runes", len([]rune(c.Title)))
	}
	if !strings.HasSuffix(c.Title, "...") {
		t.Errorf("truncated title missing ellipsis: %q", c.Title)
	}
}

func TestPruneOldTurns(t *testing.T) {
	c := NewConversation()
	for i := 0; i < MaxTurns+10; i++ {
		c.AddUserTurn(fmt.Sprintf("turn %d", i))
	}
	if c.TurnCount() != MaxTurns {
		t.Errorf("expected %d turns after pruning, got %d", MaxTurns, c.TurnCount())
	}
	if c.Turns[0].Content != "turn 10" {
		t.Errorf("oldest surviving turn is %q", c.Turns[0].Content)
	}
}

// =============================================================================
// REMOTE SESSION TESTS
// =============================================================================

func TestSetRemoteSessionFirstWriterWins(t *testing.T) {
	c := NewConversation()

	if c.SetRemoteSession("") {
		t.Error("empty id was adopted")
	}
	if !c.SetRemoteSession("42") {
		t.Error("first id rejected")
	}
	if c.SetRemoteSession("99") {
		t.Error("second id overwrote the binding")
	}
	if got := c.RemoteSession(); got != "42" {
		t.Errorf("binding is %q, want 42", got)
	}
}

// =============================================================================
// CLEAR AND EPOCH TESTS
// =============================================================================

func TestClearResetsEverything(t *testing.T) {
	c := NewConversation()
	c.AddUserTurn("hello")
	c.SetRemoteSession("42")
	c.SetPending(true)
	before := c.Epoch()

	c.Clear()

	if !c.IsEmpty() {
		t.Error("turns survived Clear")
	}
	if c.Title != "" {
		t.Errorf("title survived Clear: %q", c.Title)
	}
	if c.RemoteSession() != "" {
		t.Error("session binding survived Clear")
	}
	if c.Pending() {
		t.Error("pending flag survived Clear")
	}
	if c.Epoch() != before+1 {
		t.Errorf("epoch is %d, want %d", c.Epoch(), before+1)
	}
}

func TestClearAllowsRebinding(t *testing.T) {
	c := NewConversation()
	c.SetRemoteSession("42")
	c.Clear()

	if !c.SetRemoteSession("77") {
		t.Error("rebinding after Clear rejected")
	}
	if got := c.RemoteSession(); got != "77" {
		t.Errorf("binding is %q, want 77", got)
	}
}

// =============================================================================
// METADATA TESTS
// =============================================================================

func TestMeta(t *testing.T) {
	c := NewConversation()
	c.AddUserTurn("What is osmosis?")
	c.AddAssistantTurn("Movement of water across a membrane.")

	meta := c.Meta()
	if meta.ID != c.ID {
		t.Error("meta id mismatch")
	}
	if meta.TurnCount != 2 {
		t.Errorf("meta turn count is %d", meta.TurnCount)
	}
	if meta.Title != "What is osmosis?" {
		t.Errorf("meta title is %q", meta.Title)
	}
}

func TestConversationIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c := NewConversation()
		if !strings.HasPrefix(c.ID, "conv_") {
			t.Fatalf("unexpected id format: %q", c.ID)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id: %q", c.ID)
		}
		seen[c.ID] = true
	}
}
