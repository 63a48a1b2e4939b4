// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides credential storage and the identity session state
// machine for the StudyHall client.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// TOKEN STORE INTERFACE
// =============================================================================

// TokenStore is the persistence boundary for the platform access token.
//
// Credential() doubles as the api.CredentialSource implementation, so the
// gateway client reads the same store the session writes.
type TokenStore interface {
	// Save persists the token, replacing any previous one.
	Save(token string) error
	// Credential returns the stored token, or ("", false) when absent.
	Credential() (string, bool)
	// Clear removes the stored token. Clearing an empty store is not an
	// error.
	Clear() error
	// Exists reports whether a token is stored.
	Exists() bool
}

// =============================================================================
// FILE-BASED TOKEN STORE
// =============================================================================

// FileTokenStore stores the token in a single file with restricted
// permissions (0600) under a 0700 directory.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a file-based token store at path.
// An empty path falls back to the default location.
func NewFileTokenStore(path string) *FileTokenStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &FileTokenStore{path: path}
}

// Save writes the token atomically with restricted permissions.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (f *FileTokenStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}
	if err := util.AtomicWriteFileWithDir(f.path, []byte(token), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Credential reads the stored token.
func (f *FileTokenStore) Credential() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the token file.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists checks if the token file exists.
func (f *FileTokenStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// DefaultTokenPath returns the default path for token storage.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".studyhall", "token")
	}
	return filepath.Join(home, ".studyhall", "token")
}

// =============================================================================
// IN-MEMORY TOKEN STORE
// =============================================================================

// MemoryTokenStore keeps the token in memory. Used by tests.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Save stores the token.
func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}
	m.token = token
	m.set = true
	return nil
}

// Credential returns the stored token.
func (m *MemoryTokenStore) Credential() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set
}

// Clear drops the token.
func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}

// Exists reports whether a token is stored.
func (m *MemoryTokenStore) Exists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set
}
