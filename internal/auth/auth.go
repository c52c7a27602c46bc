// Package auth verifies who is calling. The service accepts either signed
// JWTs issued at login or a fixed table of static bearer tokens; both
// resolve to an Identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Role is the coarse access level of a caller.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts configuration text to a Role.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Identity is the verified caller of one request.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	// TokenID identifies the JWT the identity came from; empty for static
	// tokens.
	TokenID string `json:"-"`
}

// IsAdmin reports whether the identity itself carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Verifier resolves a bearer token to an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Issuer mints bearer tokens for authenticated identities.
type Issuer interface {
	Issue(ctx context.Context, id Identity) (string, error)
}

// Revoker invalidates a previously issued token.
type Revoker interface {
	Revoke(ctx context.Context, id Identity) error
}

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
}

// splitEntries splits a ";"-separated configuration list, skipping blanks.
func splitEntries(raw string) []string {
	var out []string
	for _, e := range strings.Split(raw, ";") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// chain tries verifiers in order.
type chain []Verifier

// Chain returns a Verifier accepting a token when any of vs accepts it.
// Nil verifiers are skipped. Errors other than ErrInvalidToken stop the
// search.
func Chain(vs ...Verifier) Verifier {
	var c chain
	for _, v := range vs {
		if v != nil {
			c = append(c, v)
		}
	}
	return c
}

func (c chain) Verify(ctx context.Context, token string) (Identity, error) {
	for _, v := range c {
		id, err := v.Verify(ctx, token)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrInvalidToken) {
			return Identity{}, err
		}
	}
	return Identity{}, ErrInvalidToken
}
