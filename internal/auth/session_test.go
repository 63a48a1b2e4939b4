// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fakeGateway scripts the three auth endpoints and counts calls.
type fakeGateway struct {
	mu sync.Mutex

	token    string
	tokenErr error

	identity *model.Identity
	meErr    error

	registerErr error

	tokenCalls    int
	meCalls       int
	registerCalls int

	// meStarted/meRelease let a test pause Me mid-flight.
	meStarted chan struct{}
	meRelease chan struct{}
}

func (g *fakeGateway) Token(_ context.Context, _, _ string) (string, error) {
	g.mu.Lock()
	g.tokenCalls++
	token, err := g.token, g.tokenErr
	g.mu.Unlock()
	return token, err
}

func (g *fakeGateway) Me(_ context.Context) (*model.Identity, error) {
	g.mu.Lock()
	g.meCalls++
	identity, err := g.identity, g.meErr
	started, release := g.meStarted, g.meRelease
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	id := *identity
	return &id, nil
}

func (g *fakeGateway) Register(_ context.Context, _, _, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.registerCalls++
	return g.registerErr
}

func studentIdentity() *model.Identity {
	return &model.Identity{
		ID:       1,
		Username: "casey",
		Email:    "casey@example.com",
		Active:   true,
		Role:     model.RoleStudent,
	}
}

// =============================================================================
// BOOTSTRAP TESTS
// =============================================================================

func TestBootstrapWithoutTokenSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{}
	s := NewSession(NewMemoryTokenStore(), gw)

	if got := s.Bootstrap(context.Background()); got != StateAnonymous {
		t.Fatalf("expected Anonymous, got %v", got)
	}
	if gw.meCalls != 0 {
		t.Errorf("bootstrap without token made %d network calls", gw.meCalls)
	}
}

func TestBootstrapVerifiesStoredToken(t *testing.T) {
	store := NewMemoryTokenStore()
	if err := store.Save("tok-1"); err != nil {
		t.Fatal(err)
	}
	gw := &fakeGateway{identity: studentIdentity()}
	s := NewSession(store, gw)

	if got := s.Bootstrap(context.Background()); got != StateAuthenticated {
		t.Fatalf("expected Authenticated, got %v", got)
	}
	if id := s.Identity(); id == nil || id.Username != "casey" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestBootstrapFailureClearsToken(t *testing.T) {
	store := NewMemoryTokenStore()
	if err := store.Save("tok-stale"); err != nil {
		t.Fatal(err)
	}
	gw := &fakeGateway{meErr: api.ErrUnauthorized}
	s := NewSession(store, gw)

	if got := s.Bootstrap(context.Background()); got != StateAnonymous {
		t.Fatalf("expected Anonymous, got %v", got)
	}
	if store.Exists() {
		t.Error("rejected token was kept in the store")
	}
}

func TestBootstrapNetworkFailureClearsToken(t *testing.T) {
	// Any verification failure lands on Anonymous with the token cleared,
	// so a dead token can't fail again on the next start.
	store := NewMemoryTokenStore()
	if err := store.Save("tok-1"); err != nil {
		t.Fatal(err)
	}
	gw := &fakeGateway{meErr: api.ErrNetwork}
	s := NewSession(store, gw)

	if got := s.Bootstrap(context.Background()); got != StateAnonymous {
		t.Fatalf("expected Anonymous, got %v", got)
	}
	if store.Exists() {
		t.Error("token survived a failed verification")
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLoginSuccess(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{token: "tok-new", identity: studentIdentity()}
	s := NewSession(store, gw)

	identity, err := s.Login(context.Background(), "casey", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if identity.Username != "casey" {
		t.Errorf("unexpected identity: %+v", identity)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state is %v, want Authenticated", s.State())
	}
	if tok, ok := store.Credential(); !ok || tok != "tok-new" {
		t.Errorf("stored token is %q/%v, want tok-new", tok, ok)
	}
}

func TestLoginRejectedCredentials(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{tokenErr: api.ErrUnauthorized}
	s := NewSession(store, gw)

	_, err := s.Login(context.Background(), "casey", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if s.State() != StateLoading {
		t.Errorf("failed login changed the state to %v", s.State())
	}
	if store.Exists() {
		t.Error("failed login persisted a token")
	}
}

func TestLoginIdentityFetchFailureRollsBack(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{token: "tok-new", meErr: api.ErrNetwork}
	s := NewSession(store, gw)

	if _, err := s.Login(context.Background(), "casey", "hunter2"); err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateAnonymous {
		t.Errorf("state is %v, want Anonymous", s.State())
	}
	if store.Exists() {
		t.Error("token kept although the identity fetch failed")
	}
}

func TestLogoutDiscardsInFlightLogin(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{
		token:     "tok-new",
		identity:  studentIdentity(),
		meStarted: make(chan struct{}),
		meRelease: make(chan struct{}),
	}
	s := NewSession(store, gw)

	type result struct {
		identity *model.Identity
		err      error
	}
	done := make(chan result, 1)
	go func() {
		id, err := s.Login(context.Background(), "casey", "hunter2")
		done <- result{id, err}
	}()

	// Wait until the login is between Save and the identity fetch, then log
	// out underneath it.
	<-gw.meStarted
	s.Logout()
	close(gw.meRelease)

	res := <-done
	if !errors.Is(res.err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", res.err)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state is %v, want Anonymous", s.State())
	}
	if store.Exists() {
		t.Error("superseded login left a token behind")
	}
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestRegisterNeverAuthenticates(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{}
	s := NewSession(store, gw)

	if err := s.Register(context.Background(), "casey", "casey@example.com", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if s.State() != StateLoading {
		t.Errorf("register changed the state to %v", s.State())
	}
	if store.Exists() {
		t.Error("register stored a token")
	}
	if gw.tokenCalls != 0 || gw.meCalls != 0 {
		t.Error("register called the auth endpoints")
	}
}

func TestRegisterConflict(t *testing.T) {
	gw := &fakeGateway{registerErr: &api.RequestError{Status: http.StatusConflict, Detail: "taken"}}
	s := NewSession(NewMemoryTokenStore(), gw)

	err := s.Register(context.Background(), "casey", "casey@example.com", "hunter2")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogoutFromEveryState(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Session, *MemoryTokenStore, *fakeGateway)
	}{
		{"from loading", func(*Session, *MemoryTokenStore, *fakeGateway) {}},
		{"from anonymous", func(s *Session, _ *MemoryTokenStore, _ *fakeGateway) {
			s.Bootstrap(context.Background())
		}},
		{"from authenticated", func(s *Session, store *MemoryTokenStore, gw *fakeGateway) {
			gw.mu.Lock()
			gw.token = "tok"
			gw.identity = studentIdentity()
			gw.mu.Unlock()
			if _, err := s.Login(context.Background(), "casey", "hunter2"); err != nil {
				panic(err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryTokenStore()
			gw := &fakeGateway{}
			s := NewSession(store, gw)
			tt.prepare(s, store, gw)

			s.Logout()
			if s.State() != StateAnonymous {
				t.Errorf("state is %v, want Anonymous", s.State())
			}
			if s.Identity() != nil {
				t.Error("identity survived logout")
			}
			if store.Exists() {
				t.Error("token survived logout")
			}
		})
	}
}

func TestInvalidateEndsSession(t *testing.T) {
	store := NewMemoryTokenStore()
	gw := &fakeGateway{token: "tok", identity: studentIdentity()}
	s := NewSession(store, gw)
	if _, err := s.Login(context.Background(), "casey", "hunter2"); err != nil {
		t.Fatal(err)
	}

	s.Invalidate()
	if s.State() != StateAnonymous || store.Exists() {
		t.Error("Invalidate did not end the session")
	}
}
