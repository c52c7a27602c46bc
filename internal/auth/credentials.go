package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type credential struct {
	hash     []byte
	identity Identity
}

// CredentialTable authenticates against a fixed set of bcrypt hashed
// passwords.
type CredentialTable struct {
	users map[string]credential
	// dummy is compared against when the user is unknown so that lookups
	// of missing and existing users take similar time.
	dummy []byte
}

// ParseCredentialTable reads entries of the form
// "username:bcrypt-hash:role[:email]" separated by ";". Bcrypt hashes
// contain no ":" so the split is unambiguous.
func ParseCredentialTable(raw string) (*CredentialTable, error) {
	t := &CredentialTable{users: make(map[string]credential)}
	for _, entry := range splitEntries(raw) {
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("credential entry %q: want username:hash:role[:email]", entry)
		}
		username := strings.TrimSpace(parts[0])
		if username == "" {
			return nil, fmt.Errorf("credential entry %q: empty username", entry)
		}
		if _, err := bcrypt.Cost([]byte(parts[1])); err != nil {
			return nil, fmt.Errorf("credential entry for %q: %w", username, err)
		}
		role, err := ParseRole(parts[2])
		if err != nil {
			return nil, fmt.Errorf("credential entry for %q: %w", username, err)
		}
		id := Identity{Username: username, Role: role}
		if len(parts) == 4 {
			id.Email = strings.ToLower(strings.TrimSpace(parts[3]))
		}
		t.users[username] = credential{hash: []byte(parts[1]), identity: id}
		if t.dummy == nil {
			t.dummy = []byte(parts[1])
		}
	}
	return t, nil
}

// Len returns the number of configured users.
func (t *CredentialTable) Len() int { return len(t.users) }

// Authenticate implements Authenticator.
func (t *CredentialTable) Authenticate(_ context.Context, username, password string) (Identity, error) {
	cred, ok := t.users[username]
	if !ok {
		if t.dummy != nil {
			_ = bcrypt.CompareHashAndPassword(t.dummy, []byte(password))
		}
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return cred.identity, nil
}
