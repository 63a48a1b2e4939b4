// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MaxTurns is the maximum number of turns to keep in conversation history.
// When exceeded, old turns are pruned to prevent unbounded memory growth.
const MaxTurns = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered study-chat turn log with its server-side
// session binding.
//
// The turn log is append-only between clears. The remote session id is
// adopted from the first assistant reply and never overwritten afterwards,
// so every later send continues the same server-side session. The epoch
// counter increments on every Clear; callers holding results from a
// previous epoch must discard them.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Turns
	Turns []*Turn `json:"turns"`

	remoteSession string
	pending       bool
	epoch         uint64
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        generateConversationID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Turns:     make([]*Turn, 0),
	}
}

// =============================================================================
// TURN MANAGEMENT
// =============================================================================

// AddTurn appends a turn to the log.
func (c *Conversation) AddTurn(t *Turn) {
	c.Turns = append(c.Turns, t)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldTurns()
}

// AddUserTurn creates and appends a user turn.
func (c *Conversation) AddUserTurn(content string) *Turn {
	t := NewUserTurn(content)
	c.AddTurn(t)
	return t
}

// AddAssistantTurn creates and appends an assistant turn.
func (c *Conversation) AddAssistantTurn(content string) *Turn {
	t := NewAssistantTurn(content)
	c.AddTurn(t)
	return t
}

// AddNoticeTurn creates and appends a locally generated failure notice.
func (c *Conversation) AddNoticeTurn(content string) *Turn {
	t := NewNoticeTurn(content)
	c.AddTurn(t)
	return t
}

// LastTurn returns the most recent turn, or nil if empty.
func (c *Conversation) LastTurn() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return c.Turns[len(c.Turns)-1]
}

// LastUserTurn returns the most recent user turn.
func (c *Conversation) LastUserTurn() *Turn {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == TurnUser {
			return c.Turns[i]
		}
	}
	return nil
}

// TurnCount returns the number of turns.
func (c *Conversation) TurnCount() int {
	return len(c.Turns)
}

// IsEmpty returns true if there are no turns.
func (c *Conversation) IsEmpty() bool {
	return len(c.Turns) == 0
}

// Clear removes all turns, drops the remote session binding and the pending
// flag, and advances the epoch so in-flight results are discarded.
func (c *Conversation) Clear() {
	c.Turns = make([]*Turn, 0)
	c.Title = ""
	c.remoteSession = ""
	c.pending = false
	c.epoch++
	c.UpdatedAt = time.Now()
}

// =============================================================================
// REMOTE SESSION BINDING
// =============================================================================

// SetRemoteSession adopts the server session id if none is bound yet.
// First writer wins: returns false without modifying the binding when a
// session id is already set or the candidate is empty.
func (c *Conversation) SetRemoteSession(id string) bool {
	if id == "" || c.remoteSession != "" {
		return false
	}
	c.remoteSession = id
	return true
}

// RemoteSession returns the bound server session id, or "" if unbound.
func (c *Conversation) RemoteSession() string {
	return c.remoteSession
}

// =============================================================================
// PENDING AND EPOCH STATE
// =============================================================================

// Pending reports whether a turn is awaiting its reply.
func (c *Conversation) Pending() bool {
	return c.pending
}

// SetPending marks or unmarks the awaiting-reply state.
func (c *Conversation) SetPending(p bool) {
	c.pending = p
}

// Epoch returns the current clear-generation counter.
func (c *Conversation) Epoch() uint64 {
	return c.epoch
}

// =============================================================================
// TITLE AND METADATA
// =============================================================================

// updateTitle auto-generates a title from the first user turn if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, t := range c.Turns {
		if t.Role == TurnUser {
			c.Title = t.Preview(50)
			return
		}
	}
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// Preview returns a short preview of the conversation.
func (c *Conversation) Preview() string {
	if len(c.Turns) == 0 {
		return "Empty conversation"
	}
	first := c.LastUserTurn()
	if first == nil {
		first = c.Turns[0]
	}
	return first.Preview(100)
}

// ConversationMeta holds lightweight metadata for listing.
type ConversationMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TurnCount int       `json:"turn_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Preview   string    `json:"preview"`
}

// Meta returns metadata about the conversation.
func (c *Conversation) Meta() ConversationMeta {
	return ConversationMeta{
		ID:        c.ID,
		Title:     c.GetTitle(),
		TurnCount: len(c.Turns),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Preview:   c.Preview(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}

// pruneOldTurns removes old turns when the log exceeds MaxTurns.
func (c *Conversation) pruneOldTurns() {
	if len(c.Turns) <= MaxTurns {
		return
	}
	c.Turns = c.Turns[len(c.Turns)-MaxTurns:]
}
