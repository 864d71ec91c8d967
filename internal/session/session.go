// internal/session/session.go
//
// Session State: the authenticated identity (role + credential) for one
// terminal. Both fields survive restarts via the state directory and are
// destroyed on logout or when the backend rejects the credential.

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Role is the access class of an authenticated identity. The numeric
// values mirror the backend role ids.
type Role int

const (
	RoleAdmin    Role = 0
	RoleCustomer Role = 1
	RoleDisplay  Role = 2
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCustomer:
		return "customer"
	case RoleDisplay:
		return "display"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// RoleFromID maps a backend role id onto a Role. Unknown ids come back
// with ok == false.
func RoleFromID(id int) (Role, bool) {
	switch Role(id) {
	case RoleAdmin, RoleCustomer, RoleDisplay:
		return Role(id), true
	}
	return 0, false
}

// Session is the current identity. The zero value is unauthenticated.
type Session struct {
	Token string
	Role  Role

	authenticated bool
}

// Authenticated reports whether a login is in effect.
func (s Session) Authenticated() bool {
	return s.authenticated
}

// NewSession returns an authenticated session for a verified credential.
func NewSession(token string, role Role) Session {
	return Session{Token: token, Role: role, authenticated: true}
}

// Credential and role are persisted under separate keys so a partial
// write leaves an obviously broken (and therefore unauthenticated) state
// rather than a plausible-looking one.
const (
	tokenFile = "token"
	roleFile  = "role"
)

// Store owns the session and its on-disk mirror.
type Store struct {
	dir string

	mu      sync.Mutex
	current Session
}

// NewStore opens the store rooted at stateDir and restores any persisted
// session. A missing or malformed state file means unauthenticated, never
// an error.
func NewStore(stateDir string) *Store {
	s := &Store{dir: stateDir}
	s.current = s.restore()
	return s
}

// Login stores the credential and role, marks the session authenticated
// and mirrors both to disk.
func (s *Store) Login(token string, role Role) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("session: credential is required")
	}
	if _, ok := RoleFromID(int(role)); !ok {
		return fmt.Errorf("session: unknown role %d", int(role))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("session: ensure state dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("session: persist credential: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, roleFile), []byte(strconv.Itoa(int(role))), 0o644); err != nil {
		return fmt.Errorf("session: persist role: %w", err)
	}
	s.current = Session{Token: token, Role: role, authenticated: true}
	return nil
}

// Logout clears the session and removes the persisted state.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	var firstErr error
	for _, name := range []string{tokenFile, roleFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("session: clear state: %w", err)
		}
	}
	return firstErr
}

// Invalidate forcibly logs out. Used by the transport layer when the
// backend answers 401; any cleanup failure is swallowed because the
// in-memory session is already gone.
func (s *Store) Invalidate() {
	_ = s.Logout()
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Authenticated reports whether a login is in effect.
func (s *Store) Authenticated() bool {
	return s.Current().Authenticated()
}

// Token returns the current credential, or "" when unauthenticated.
// Shaped as a value func so it can serve as the transport's token source.
func (s *Store) Token() string {
	return s.Current().Token
}

func (s *Store) restore() Session {
	tokenData, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return Session{}
	}
	token := strings.TrimSpace(string(tokenData))
	if token == "" {
		return Session{}
	}
	roleData, err := os.ReadFile(filepath.Join(s.dir, roleFile))
	if err != nil {
		return Session{}
	}
	id, err := strconv.Atoi(strings.TrimSpace(string(roleData)))
	if err != nil {
		return Session{}
	}
	role, ok := RoleFromID(id)
	if !ok {
		return Session{}
	}
	return Session{Token: token, Role: role, authenticated: true}
}
