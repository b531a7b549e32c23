package session

import (
	"encoding/json"

	"github.com/carelink/carelink/internal/models"
)

// RouteKind is the startup destination category.
type RouteKind int

const (
	// RouteWelcome is the unauthenticated landing screen.
	RouteWelcome RouteKind = iota
	// RouteAdminDashboard is the admin home.
	RouteAdminDashboard
	// RouteHome is the role-specific home for parents and helpers.
	RouteHome
)

// StartRoute is the outcome of the one-time startup dispatch.
type StartRoute struct {
	Kind RouteKind
	// Role is set for RouteHome.
	Role models.Role
	// User is the cached snapshot backing an authenticated route; nil
	// for RouteWelcome.
	User *models.UserSummary
}

// ResolveStartRoute reads the persisted token and cached user and picks
// the first screen. Anything missing or unparseable falls back to the
// welcome screen; the gate never fails open into an authenticated route.
func ResolveStartRoute(store Store) StartRoute {
	token, ok := store.Get(KeyToken)
	if !ok || token == "" {
		return StartRoute{Kind: RouteWelcome}
	}
	raw, ok := store.Get(KeyUser)
	if !ok || raw == "" {
		return StartRoute{Kind: RouteWelcome}
	}

	var user models.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return StartRoute{Kind: RouteWelcome}
	}
	if !user.UserType.Valid() {
		return StartRoute{Kind: RouteWelcome}
	}

	if user.UserType == models.RoleAdmin {
		return StartRoute{Kind: RouteAdminDashboard, Role: models.RoleAdmin, User: &user}
	}
	return StartRoute{Kind: RouteHome, Role: user.UserType, User: &user}
}
