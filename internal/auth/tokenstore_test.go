// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T) *FileTokenStore {
	t.Helper()
	return NewFileTokenStore(filepath.Join(t.TempDir(), "state", "token"))
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)

	if store.Exists() {
		t.Error("fresh store reports a token")
	}
	if _, ok := store.Credential(); ok {
		t.Error("fresh store returned a credential")
	}

	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists() {
		t.Error("saved token not reported by Exists")
	}
	token, ok := store.Credential()
	if !ok || token != "tok-abc" {
		t.Errorf("Credential() = (%q, %v)", token, ok)
	}
}

func TestFileTokenStoreRejectsEmptyToken(t *testing.T) {
	store := newTestFileStore(t)

	for _, token := range []string{"", "   ", "\n\t"} {
		if err := store.Save(token); err == nil {
			t.Errorf("Save(%q) accepted a blank token", token)
		}
	}
	if store.Exists() {
		t.Error("blank save created a token file")
	}
}

func TestFileTokenStorePermissions(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save("tok-abc"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %o, want 0600", perm)
	}
}

func TestFileTokenStoreTrimsStoredToken(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save("tok-abc"); err != nil {
		t.Fatal(err)
	}
	// Simulate a token file edited by hand with a trailing newline.
	if err := os.WriteFile(store.path, []byte("tok-edited\n"), 0600); err != nil {
		t.Fatal(err)
	}

	token, ok := store.Credential()
	if !ok || token != "tok-edited" {
		t.Errorf("Credential() = (%q, %v)", token, ok)
	}
}

func TestFileTokenStoreClear(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save("tok-abc"); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if store.Exists() {
		t.Error("token survives Clear")
	}

	// Clearing an empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	if store.Exists() {
		t.Error("fresh store reports a token")
	}
	if err := store.Save(""); err == nil {
		t.Error("blank token accepted")
	}
	if err := store.Save("tok-mem"); err != nil {
		t.Fatal(err)
	}
	token, ok := store.Credential()
	if !ok || token != "tok-mem" {
		t.Errorf("Credential() = (%q, %v)", token, ok)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if store.Exists() {
		t.Error("token survives Clear")
	}
}
