// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"admin", RoleAdmin, false},
		{"owner", RoleOwner, false},
		{"", "", true},
		{"Student", "", true},
		{"superuser", "", true},
		{"root", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Errorf("expected ErrUnknownRole, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleAdmin, RoleOwner} {
		if !r.Valid() {
			t.Errorf("%v reported invalid", r)
		}
	}
	for _, r := range []Role{"", "moderator", "ADMIN"} {
		if r.Valid() {
			t.Errorf("%q reported valid", r)
		}
	}
}

// =============================================================================
// IDENTITY TESTS
// =============================================================================

func TestIdentityValidate(t *testing.T) {
	valid := Identity{ID: 1, Username: "casey", Role: RoleStudent}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid identity rejected: %v", err)
	}

	noName := Identity{ID: 1, Role: RoleStudent}
	if err := noName.Validate(); err == nil {
		t.Error("identity without username accepted")
	}

	badRole := Identity{ID: 1, Username: "casey", Role: "wizard"}
	if err := badRole.Validate(); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestHasRole(t *testing.T) {
	admin := Identity{Username: "a", Role: RoleAdmin}

	if !admin.HasRole() {
		t.Error("empty allowed set rejected a valid role")
	}
	if !admin.HasRole(RoleAdmin, RoleOwner) {
		t.Error("admin rejected from admin set")
	}
	if admin.HasRole(RoleOwner) {
		t.Error("admin accepted into owner-only set")
	}

	unknown := Identity{Username: "u", Role: "wizard"}
	if unknown.HasRole() {
		t.Error("unknown role passed the empty allowed set")
	}
	if unknown.HasRole(RoleAdmin) {
		t.Error("unknown role passed a restricted set")
	}
}
