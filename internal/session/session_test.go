package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoginPersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if store.Authenticated() {
		t.Fatalf("fresh store must start unauthenticated")
	}
	if err := store.Login("tok-123", RoleCustomer); err != nil {
		t.Fatalf("login: %v", err)
	}

	reopened := NewStore(dir)
	if !reopened.Authenticated() {
		t.Fatalf("expected session to survive restart")
	}
	sess := reopened.Current()
	if sess.Token != "tok-123" || sess.Role != RoleCustomer {
		t.Fatalf("restored wrong session: %+v", sess)
	}
}

func TestLogoutClearsDiskState(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := store.Login("tok-123", RoleAdmin); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Authenticated() {
		t.Fatalf("expected unauthenticated after logout")
	}
	for _, name := range []string{tokenFile, roleFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, err=%v", name, err)
		}
	}
	if NewStore(dir).Authenticated() {
		t.Fatalf("expected restart after logout to stay unauthenticated")
	}
}

func TestMalformedStateIsUnauthenticated(t *testing.T) {
	cases := map[string]map[string]string{
		"missing role":  {tokenFile: "tok-123"},
		"missing token": {roleFile: "1"},
		"empty token":   {tokenFile: "   ", roleFile: "1"},
		"non-int role":  {tokenFile: "tok-123", roleFile: "customer"},
		"unknown role":  {tokenFile: "tok-123", roleFile: "9"},
	}
	for name, files := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, content := range files {
				if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if NewStore(dir).Authenticated() {
				t.Fatalf("expected malformed state to read as unauthenticated")
			}
		})
	}
}

func TestLoginRejectsEmptyCredentialAndUnknownRole(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Login("  ", RoleCustomer); err == nil {
		t.Fatalf("expected error for empty credential")
	}
	if err := store.Login("tok", Role(7)); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if store.Authenticated() {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestInvalidateForcesLogout(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Login("tok-123", RoleDisplay); err != nil {
		t.Fatalf("login: %v", err)
	}
	store.Invalidate()
	if store.Authenticated() {
		t.Fatalf("expected invalidate to drop the session")
	}
	if store.Token() != "" {
		t.Fatalf("expected empty token after invalidate")
	}
}
