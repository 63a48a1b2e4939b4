// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package access decides view navigation from session state and role.
//
// The guard is a pure function: no I/O, no clock, no global state. Every
// navigation decision the UI makes for a protected view flows through
// Decide, so the redirect rules live in exactly one place.
package access

import (
	"github.com/jeranaias/studyhall-tui/internal/auth"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// DECISION TYPE
// =============================================================================

// Decision is the outcome of an access check.
type Decision int

const (
	// DecisionPending: session still resolving; render a neutral
	// indicator, never a redirect. Prevents a login flash on startup.
	DecisionPending Decision = iota
	// DecisionAllow: render the requested view.
	DecisionAllow
	// DecisionLogin: no identity; go to the login view.
	DecisionLogin
	// DecisionHome: authenticated but not permitted; go home.
	DecisionHome
)

// String returns the decision name for logging.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAllow:
		return "allow"
	case DecisionLogin:
		return "login"
	case DecisionHome:
		return "home"
	default:
		return "unknown"
	}
}

// =============================================================================
// GUARD
// =============================================================================

// Decide evaluates access to a view requiring the given roles.
//
// An empty allowed set means any authenticated identity passes. Unknown
// roles never authorize: an identity carrying a role outside the closed
// enumeration is treated as not permitted, not as anonymous.
func Decide(state auth.State, identity *model.Identity, allowed []model.Role) Decision {
	switch state {
	case auth.StateLoading:
		return DecisionPending
	case auth.StateAnonymous:
		return DecisionLogin
	case auth.StateAuthenticated:
		if identity == nil || !identity.Role.Valid() {
			return DecisionHome
		}
		if identity.HasRole(allowed...) {
			return DecisionAllow
		}
		return DecisionHome
	default:
		// Unreachable with the three-state machine; fail closed.
		return DecisionLogin
	}
}

// =============================================================================
// ROUTE TABLE
// =============================================================================

// Route names a protected view and the roles allowed to enter it.
type Route struct {
	Name  string
	Roles []model.Role // empty = any authenticated identity
}

// Protected view routes. The admin view admits owners as well; the owner
// view is owner-only. Everything else only requires being signed in.
var (
	RouteHome    = Route{Name: "home"}
	RouteChat    = Route{Name: "chat"}
	RouteCourses = Route{Name: "courses"}
	RouteNotes   = Route{Name: "notes"}
	RouteAdmin   = Route{Name: "admin", Roles: []model.Role{model.RoleAdmin, model.RoleOwner}}
	RouteOwner   = Route{Name: "owner", Roles: []model.Role{model.RoleOwner}}
)

// DecideRoute evaluates access to a named route.
func DecideRoute(state auth.State, identity *model.Identity, route Route) Decision {
	return Decide(state, identity, route.Roles)
}
