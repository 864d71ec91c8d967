package access

import (
	"testing"

	"frog-counter/internal/session"
)

func TestDecideUnauthenticatedAlwaysRedirectsToLogin(t *testing.T) {
	var anon session.Session
	cases := [][]session.Role{
		nil,
		{session.RoleAdmin},
		{session.RoleAdmin, session.RoleCustomer, session.RoleDisplay},
	}
	for _, required := range cases {
		d := Decide(anon, required...)
		if d.Allow {
			t.Fatalf("unauthenticated session must not be allowed (required=%v)", required)
		}
		if d.Redirect != RouteLogin {
			t.Fatalf("expected login redirect, got %s", d.Redirect)
		}
	}
}

func TestDecideAuthenticatedWithoutRequiredRoles(t *testing.T) {
	sess := session.NewSession("tok", session.RoleCustomer)
	if d := Decide(sess); !d.Allow {
		t.Fatalf("any authenticated session should pass an open gate, got %+v", d)
	}
}

func TestDecideRoleInSetAllows(t *testing.T) {
	sess := session.NewSession("tok", session.RoleDisplay)
	d := Decide(sess, session.RoleAdmin, session.RoleDisplay)
	if !d.Allow {
		t.Fatalf("role in required set must be allowed, got %+v", d)
	}
}

func TestDecideWrongRoleRedirectsToLoginNotForbidden(t *testing.T) {
	sess := session.NewSession("tok", session.RoleCustomer)
	d := Decide(sess, session.RoleAdmin)
	if d.Allow {
		t.Fatalf("wrong role must not be allowed")
	}
	// Unauthorized roles are treated exactly like unauthenticated users.
	if d.Redirect != RouteLogin {
		t.Fatalf("expected login redirect for wrong role, got %s", d.Redirect)
	}
}

func TestFallbackRoutesByRole(t *testing.T) {
	cases := []struct {
		sess session.Session
		want Route
	}{
		{session.Session{}, RouteLogin},
		{session.NewSession("tok", session.RoleAdmin), RouteKitchen},
		{session.NewSession("tok", session.RoleCustomer), RouteOrder},
		{session.NewSession("tok", session.RoleDisplay), RouteBoard},
	}
	for _, tc := range cases {
		if got := Fallback(tc.sess); got != tc.want {
			t.Fatalf("fallback for %v: got %s want %s", tc.sess.Role, got, tc.want)
		}
	}
}
