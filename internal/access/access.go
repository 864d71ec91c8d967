// internal/access/access.go
//
// Access Gate: a pure decision over (session, required roles). The TUI
// evaluates it on every screen transition and again on render, so an
// in-app logout revokes access immediately.

package access

import (
	"frog-counter/internal/session"
)

// Route names the screens a decision can point at.
type Route int

const (
	RouteLogin Route = iota
	RouteOrder
	RouteKitchen
	RouteBoard
)

// String returns the route name used in logs.
func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteOrder:
		return "order"
	case RouteKitchen:
		return "kitchen"
	case RouteBoard:
		return "board"
	}
	return "unknown"
}

// Decision is the outcome of a gate check: either allow, or redirect to
// the given route.
type Decision struct {
	Allow    bool
	Redirect Route
}

// Decide gates a protected view. With no required roles any authenticated
// session is allowed. An unauthenticated session redirects to login, and
// so does an authenticated session whose role is outside the required set:
// unauthorized roles are deliberately treated the same as no session at
// all, there is no separate forbidden outcome.
func Decide(sess session.Session, required ...session.Role) Decision {
	if !sess.Authenticated() {
		return Decision{Redirect: RouteLogin}
	}
	if len(required) == 0 {
		return Decision{Allow: true}
	}
	for _, role := range required {
		if sess.Role == role {
			return Decision{Allow: true}
		}
	}
	return Decision{Redirect: RouteLogin}
}

// Fallback resolves the catch-all "no matching route" case by role.
func Fallback(sess session.Session) Route {
	if !sess.Authenticated() {
		return RouteLogin
	}
	switch sess.Role {
	case session.RoleAdmin:
		return RouteKitchen
	case session.RoleDisplay:
		return RouteBoard
	default:
		return RouteOrder
	}
}
