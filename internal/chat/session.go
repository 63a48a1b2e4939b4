// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the study-assistant conversation protocol.
//
// A Session owns one model.Conversation and enforces the turn lifecycle:
// at most one pending turn, append-only turn ordering, first-writer-wins
// server session binding, and epoch-guarded discarding of replies that
// arrive after the conversation was cleared.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// ErrorNotice is the assistant-side notice appended when a send fails.
// The user's turn stays in the log; only the reply is replaced by this.
const ErrorNotice = "Error: Could not reach the study assistant."

// Error variables for the send lifecycle.
var (
	// ErrEmptyMessage indicates whitespace-only input; nothing was sent
	// and no turn was created.
	ErrEmptyMessage = errors.New("empty message")

	// ErrBusy indicates a turn is already awaiting its reply.
	ErrBusy = errors.New("a turn is already pending")

	// ErrStale indicates the result belonged to a cleared conversation
	// and was discarded.
	ErrStale = errors.New("stale result discarded")
)

// Gateway is the slice of the platform API the chat session needs.
type Gateway interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatReply, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session drives one study conversation against the assistant endpoint.
type Session struct {
	mu    sync.Mutex
	conv  *model.Conversation
	gw    Gateway
	topic string
}

// NewSession creates a session over a fresh conversation.
func NewSession(gw Gateway) *Session {
	return &Session{
		conv: model.NewConversation(),
		gw:   gw,
	}
}

// SetTopic sets the optional topic hint sent with every message.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topic = topic
}

// =============================================================================
// SEND LIFECYCLE
// =============================================================================

// Begin starts a send: validates and trims the input, appends the user
// turn, marks the conversation pending, and returns the epoch plus the
// outbound request carrying the current server session binding.
//
// The caller performs the network call (typically inside a tea.Cmd) and
// then hands the outcome to Resolve or Fail with the same epoch.
func (s *Session) Begin(text string) (uint64, api.ChatRequest, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, api.ChatRequest{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.Pending() {
		return 0, api.ChatRequest{}, ErrBusy
	}

	s.conv.AddUserTurn(trimmed)
	s.conv.SetPending(true)

	req := api.ChatRequest{
		Message:   trimmed,
		SessionID: s.conv.RemoteSession(),
		Topic:     s.topic,
	}
	return s.conv.Epoch(), req, nil
}

// Resolve completes a send with the assistant reply. The reply session id
// is adopted only if the conversation has none yet (first writer wins).
// Results for a cleared conversation are discarded.
func (s *Session) Resolve(epoch uint64, reply *api.ChatReply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.Epoch() != epoch {
		return ErrStale
	}

	s.conv.AddAssistantTurn(reply.Content)
	s.conv.SetRemoteSession(reply.SessionID.String())
	s.conv.SetPending(false)
	return nil
}

// Fail completes a send that could not reach the assistant. The user turn
// is not rolled back; a fixed notice turn records the failure in order.
func (s *Session) Fail(epoch uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.Epoch() != epoch {
		return ErrStale
	}

	s.conv.AddNoticeTurn(ErrorNotice)
	s.conv.SetPending(false)
	return nil
}

// Send performs a complete synchronous round trip: Begin, gateway call,
// then Resolve or Fail. Rejected credentials are surfaced unchanged so the
// caller can invalidate the identity session.
func (s *Session) Send(ctx context.Context, text string) error {
	epoch, req, err := s.Begin(text)
	if err != nil {
		return err
	}

	reply, err := s.gw.Chat(ctx, req)
	if err != nil {
		if failErr := s.Fail(epoch); failErr != nil {
			return failErr
		}
		return err
	}
	return s.Resolve(epoch, reply)
}

// Gateway returns the session's gateway for callers issuing the network
// call themselves around Begin/Resolve/Fail.
func (s *Session) Gateway() Gateway {
	return s.gw
}

// =============================================================================
// CONVERSATION ACCESS
// =============================================================================

// Clear resets the conversation: empty log, no server session, not
// pending. Allowed at any time, including while a turn is pending; the
// epoch bump makes the in-flight reply land nowhere.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Clear()
}

// Turns returns a snapshot of the turn log.
func (s *Session) Turns() []*model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := make([]*model.Turn, len(s.conv.Turns))
	copy(turns, s.conv.Turns)
	return turns
}

// Pending reports whether a turn is awaiting its reply.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Pending()
}

// RemoteSession returns the bound server session id, or "".
func (s *Session) RemoteSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.RemoteSession()
}

// Meta returns conversation metadata for display and archiving.
func (s *Session) Meta() model.ConversationMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Meta()
}

// Archive returns a snapshot of the conversation for the history store.
func (s *Session) Archive() ArchivedConversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]*model.Turn, len(s.conv.Turns))
	copy(turns, s.conv.Turns)
	return ArchivedConversation{
		ID:            s.conv.ID,
		Title:         s.conv.GetTitle(),
		RemoteSession: s.conv.RemoteSession(),
		CreatedAt:     s.conv.CreatedAt,
		UpdatedAt:     s.conv.UpdatedAt,
		Turns:         turns,
	}
}

// ArchivedConversation is an immutable conversation snapshot.
type ArchivedConversation struct {
	ID            string
	Title         string
	RemoteSession string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Turns         []*model.Turn
}
