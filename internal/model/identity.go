// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role is the platform role of an authenticated user.
//
// SECURITY: Role is a closed enumeration. Anything outside the three known
// values fails ParseRole and never authorizes, so a compromised or buggy
// server cannot mint a privilege the client does not know about.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
)

// ErrUnknownRole indicates a role value outside the closed enumeration.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAdmin, RoleOwner:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleAdmin:
		return "Admin"
	case RoleOwner:
		return "Owner"
	default:
		return string(r)
	}
}

// =============================================================================
// IDENTITY TYPE
// =============================================================================

// Identity is the authenticated user as reported by GET /auth/me.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"is_active"`
	Role     Role   `json:"role"`

	// FetchedAt records when this identity snapshot was obtained.
	FetchedAt time.Time `json:"-"`
}

// Validate checks the identity for a usable username and a known role.
func (id *Identity) Validate() error {
	if id.Username == "" {
		return errors.New("identity missing username")
	}
	if !id.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, string(id.Role))
	}
	return nil
}

// HasRole reports whether the identity's role is in the allowed set.
// An empty set means any valid role is acceptable.
func (id *Identity) HasRole(allowed ...Role) bool {
	if !id.Role.Valid() {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if id.Role == r {
			return true
		}
	}
	return false
}
