// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// STATE TYPE
// =============================================================================

// State is the identity session state.
//
// The machine has exactly three states. Loading exists so the UI can show a
// neutral indicator while a stored token is being verified instead of
// flashing the login view.
type State int

const (
	// StateLoading is the initial state: a stored token may exist and is
	// being verified against the platform.
	StateLoading State = iota
	// StateAnonymous means no verified identity is present.
	StateAnonymous
	// StateAuthenticated means a verified identity is present.
	StateAuthenticated
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Error variables for session operations.
var (
	// ErrInvalidCredentials indicates a rejected username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyExists indicates the username or email is taken.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrSuperseded indicates a login completed after the user had already
	// logged out; its result was discarded.
	ErrSuperseded = errors.New("login superseded by logout")
)

// Gateway is the slice of the platform API the session needs.
type Gateway interface {
	Token(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context) (*model.Identity, error)
	Register(ctx context.Context, username, email, password string) error
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the identity session state machine.
//
// All transitions are serialized through the internal mutex. Network calls
// run outside the lock; an epoch counter bumped by Logout discards results
// of calls that were in flight when the user logged out, so a slow
// Bootstrap can never resurrect a session the user already ended.
type Session struct {
	mu       sync.RWMutex
	state    State
	identity *model.Identity
	epoch    uint64

	store TokenStore
	gw    Gateway
}

// NewSession creates a session in the Loading state.
func NewSession(store TokenStore, gw Gateway) *Session {
	return &Session{
		state: StateLoading,
		store: store,
		gw:    gw,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the current identity, or nil when not
// authenticated.
func (s *Session) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Snapshot returns the state and identity copy in one consistent read.
func (s *Session) Snapshot() (State, *model.Identity) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return s.state, nil
	}
	id := *s.identity
	return s.state, &id
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Bootstrap resolves the initial Loading state.
//
// Without a stored token it transitions straight to Anonymous with no
// network traffic. With one, it verifies the token via /auth/me: success
// authenticates; ANY failure (rejected token, network outage, malformed
// identity) clears the stored token and lands on Anonymous. A stale token
// is never kept around to fail again on the next start.
func (s *Session) Bootstrap(ctx context.Context) State {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	if !s.store.Exists() {
		s.transition(epoch, StateAnonymous, nil, "bootstrap: no stored token")
		return s.State()
	}

	identity, err := s.gw.Me(ctx)
	if err != nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Printf("auth: failed to clear rejected token: %v", clearErr)
		}
		s.transition(epoch, StateAnonymous, nil, fmt.Sprintf("bootstrap: token verification failed: %v", err))
		return s.State()
	}

	s.transition(epoch, StateAuthenticated, identity, "bootstrap: token verified")
	return s.State()
}

// Login exchanges credentials for a token and authenticates the session.
//
// Nothing is persisted and the state is untouched unless the full exchange
// succeeds: token first, then identity. A token that passes the exchange
// but fails the identity fetch is cleared again.
func (s *Session) Login(ctx context.Context, username, password string) (*model.Identity, error) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	token, err := s.gw.Token(ctx, username, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, err
	}

	if err := s.store.Save(token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	identity, err := s.gw.Me(ctx)
	if err != nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Printf("auth: failed to clear token after identity fetch failure: %v", clearErr)
		}
		s.transition(epoch, StateAnonymous, nil, "login: identity fetch failed")
		return nil, err
	}

	if !s.transition(epoch, StateAuthenticated, identity, "login: authenticated "+identity.Username) {
		// Logged out while the exchange was in flight; the new token was
		// cleared by Logout bumping the epoch after Save. Drop the result.
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Printf("auth: failed to clear superseded token: %v", clearErr)
		}
		return nil, ErrSuperseded
	}
	return identity, nil
}

// Register creates an account. It never authenticates, never touches the
// token store, and leaves the session state exactly as it was.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	err := s.gw.Register(ctx, username, email, password)
	if err == nil {
		return nil
	}
	if api.IsConflict(err) {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}

// Logout ends the session. Valid from every state: it clears the stored
// token, drops the identity, bumps the epoch so in-flight Bootstrap/Login
// results are discarded, and lands on Anonymous.
func (s *Session) Logout() {
	s.mu.Lock()
	s.epoch++
	s.state = StateAnonymous
	s.identity = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		log.Printf("auth: failed to clear token on logout: %v", err)
	}
	log.Printf("auth: session ended")
}

// Invalidate ends the session after a consumer observed a rejected
// credential on any gateway call. Identical to Logout.
func (s *Session) Invalidate() {
	s.Logout()
}

// transition applies a state change if the epoch is still current.
// Returns false when the result is stale and was discarded.
func (s *Session) transition(epoch uint64, state State, identity *model.Identity, event string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		log.Printf("auth: discarding stale transition (%s)", event)
		return false
	}
	s.state = state
	s.identity = identity
	log.Printf("auth: %s -> %s", event, state)
	return true
}
