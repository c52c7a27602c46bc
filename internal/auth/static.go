package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

// StaticTokens verifies bearer tokens against a fixed table. It is meant
// for service-to-service callers and local development.
type StaticTokens struct {
	tokens map[string]Identity
}

// ParseStaticTokens reads entries of the form "token:username:role[:email]"
// separated by ";".
func ParseStaticTokens(raw string) (*StaticTokens, error) {
	s := &StaticTokens{tokens: make(map[string]Identity)}
	for _, entry := range splitEntries(raw) {
		parts := strings.Split(entry, ":")
		if len(parts) < 3 || len(parts) > 4 {
			return nil, fmt.Errorf("static token entry: want token:username:role[:email]")
		}
		token, username := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if token == "" || username == "" {
			return nil, fmt.Errorf("static token entry: empty token or username")
		}
		role, err := ParseRole(parts[2])
		if err != nil {
			return nil, fmt.Errorf("static token for %q: %w", username, err)
		}
		id := Identity{Username: username, Role: role}
		if len(parts) == 4 {
			id.Email = strings.ToLower(strings.TrimSpace(parts[3]))
		}
		s.tokens[token] = id
	}
	return s, nil
}

// Len returns the number of configured tokens.
func (s *StaticTokens) Len() int { return len(s.tokens) }

// Verify implements Verifier.
func (s *StaticTokens) Verify(_ context.Context, token string) (Identity, error) {
	for known, id := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			return id, nil
		}
	}
	return Identity{}, ErrInvalidToken
}
