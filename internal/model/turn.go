// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// TURN ROLE TYPE
// =============================================================================

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
)

// String returns the string representation of the turn role.
func (r TurnRole) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the turn role.
func (r TurnRole) DisplayName() string {
	switch r {
	case TurnUser:
		return "You"
	case TurnAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is a single entry in a study conversation.
type Turn struct {
	// Identity
	ID        string    `json:"id"`
	Role      TurnRole  `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Notice marks locally generated failure turns so the UI can style
	// them differently from real assistant replies.
	Notice bool `json:"notice,omitempty"`
}

// NewTurn creates a turn with a generated ID.
func NewTurn(role TurnRole, content string) *Turn {
	return &Turn{
		ID:        generateTurnID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) *Turn {
	return NewTurn(TurnUser, content)
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string) *Turn {
	return NewTurn(TurnAssistant, content)
}

// NewNoticeTurn creates a locally generated assistant-side notice turn.
func NewNoticeTurn(content string) *Turn {
	t := NewTurn(TurnAssistant, content)
	t.Notice = true
	return t
}

// Preview returns a truncated preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t *Turn) Preview(maxLen int) string {
	runes := []rune(t.Content)
	if len(runes) <= maxLen {
		return t.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the turn has no content.
func (t *Turn) IsEmpty() bool {
	return len(t.Content) == 0
}

// generateTurnID creates a unique turn ID.
func generateTurnID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "turn_" + hex.EncodeToString(bytes)
}
