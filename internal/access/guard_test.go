// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package access

import (
	"testing"

	"github.com/jeranaias/studyhall-tui/internal/auth"
	"github.com/jeranaias/studyhall-tui/internal/model"
)

func identityWithRole(role model.Role) *model.Identity {
	return &model.Identity{
		ID:       1,
		Username: "u",
		Email:    "u@example.com",
		Active:   true,
		Role:     role,
	}
}

func TestDecide(t *testing.T) {
	student := identityWithRole(model.RoleStudent)
	admin := identityWithRole(model.RoleAdmin)
	owner := identityWithRole(model.RoleOwner)
	unknown := identityWithRole(model.Role("superuser"))

	adminRoles := []model.Role{model.RoleAdmin, model.RoleOwner}
	ownerRoles := []model.Role{model.RoleOwner}

	tests := []struct {
		name     string
		state    auth.State
		identity *model.Identity
		allowed  []model.Role
		want     Decision
	}{
		// Loading always renders neutral, never a redirect.
		{"loading open route", auth.StateLoading, nil, nil, DecisionPending},
		{"loading owner route", auth.StateLoading, owner, ownerRoles, DecisionPending},

		// Anonymous always goes to login.
		{"anonymous open route", auth.StateAnonymous, nil, nil, DecisionLogin},
		{"anonymous admin route", auth.StateAnonymous, nil, adminRoles, DecisionLogin},

		// Authenticated with an empty allowed set: any valid role passes.
		{"student open route", auth.StateAuthenticated, student, nil, DecisionAllow},
		{"admin open route", auth.StateAuthenticated, admin, nil, DecisionAllow},

		// Role-restricted routes.
		{"student on admin route", auth.StateAuthenticated, student, adminRoles, DecisionHome},
		{"admin on admin route", auth.StateAuthenticated, admin, adminRoles, DecisionAllow},
		{"owner on admin route", auth.StateAuthenticated, owner, adminRoles, DecisionAllow},
		{"student on owner route", auth.StateAuthenticated, student, ownerRoles, DecisionHome},
		{"admin on owner route", auth.StateAuthenticated, admin, ownerRoles, DecisionHome},
		{"owner on owner route", auth.StateAuthenticated, owner, ownerRoles, DecisionAllow},

		// Degenerate identities are not permitted, not anonymous.
		{"authenticated without identity", auth.StateAuthenticated, nil, nil, DecisionHome},
		{"unknown role open route", auth.StateAuthenticated, unknown, nil, DecisionHome},
		{"unknown role admin route", auth.StateAuthenticated, unknown, adminRoles, DecisionHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.state, tt.identity, tt.allowed); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecideRouteTable(t *testing.T) {
	student := identityWithRole(model.RoleStudent)
	owner := identityWithRole(model.RoleOwner)

	if got := DecideRoute(auth.StateAuthenticated, student, RouteCourses); got != DecisionAllow {
		t.Errorf("student on courses = %v, want allow", got)
	}
	if got := DecideRoute(auth.StateAuthenticated, student, RouteOwner); got != DecisionHome {
		t.Errorf("student on owner = %v, want home", got)
	}
	if got := DecideRoute(auth.StateAuthenticated, owner, RouteAdmin); got != DecisionAllow {
		t.Errorf("owner on admin = %v, want allow", got)
	}
}

func TestDecisionString(t *testing.T) {
	tests := []struct {
		d    Decision
		want string
	}{
		{DecisionPending, "pending"},
		{DecisionAllow, "allow"},
		{DecisionLogin, "login"},
		{DecisionHome, "home"},
		{Decision(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Decision(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
