package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{" Admin ", RoleAdmin, false},
		{"root", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRole(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCredentialTable(t *testing.T) {
	raw := "jan:" + hash(t, "tajne") + ":admin:Jan@Firma.pl; ola:" + hash(t, "haslo") + ":user"
	table, err := ParseCredentialTable(raw)
	if err != nil {
		t.Fatalf("ParseCredentialTable: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}

	ctx := context.Background()
	id, err := table.Authenticate(ctx, "jan", "tajne")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.Role != RoleAdmin || id.Email != "jan@firma.pl" || id.Username != "jan" {
		t.Errorf("identity = %+v", id)
	}

	if _, err := table.Authenticate(ctx, "jan", "zle"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v, want ErrInvalidCredentials", err)
	}
	if _, err := table.Authenticate(ctx, "nikt", "tajne"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: %v, want ErrInvalidCredentials", err)
	}
}

func TestParseCredentialTableRejectsMalformed(t *testing.T) {
	bad := []string{
		"jan:notahash:user",
		"jan:" + hash(t, "x") + ":root",
		"jan",
		":" + hash(t, "x") + ":user",
	}
	for _, raw := range bad {
		if _, err := ParseCredentialTable(raw); err == nil {
			t.Errorf("ParseCredentialTable(%q) succeeded", raw)
		}
	}
}

func TestStaticTokens(t *testing.T) {
	s, err := ParseStaticTokens("tok-admin:it:admin:IT@firma.pl;tok-user:kasia:user")
	if err != nil {
		t.Fatalf("ParseStaticTokens: %v", err)
	}

	ctx := context.Background()
	id, err := s.Verify(ctx, "tok-admin")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !id.IsAdmin() || id.Email != "it@firma.pl" {
		t.Errorf("identity = %+v", id)
	}

	if _, err := s.Verify(ctx, "tok-unknown"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unknown token: %v, want ErrInvalidToken", err)
	}
	if _, err := ParseStaticTokens("only:two"); err == nil {
		t.Error("malformed entry accepted")
	}
}

type memRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func (m *memRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]time.Duration)
	}
	m.ids[jti] = ttl
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[jti]
	return ok, nil
}

func TestJWTRoundTripAndRevoke(t *testing.T) {
	store := &memRevocations{}
	m := NewJWTManager("secret", time.Hour, store)
	ctx := context.Background()

	token, err := m.Issue(ctx, Identity{Username: "jan", Email: "jan@firma.pl", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := m.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Username != "jan" || id.Role != RoleAdmin || id.TokenID == "" {
		t.Errorf("identity = %+v", id)
	}

	if err := m.Revoke(ctx, id); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if store.ids[id.TokenID] != time.Hour {
		t.Errorf("revocation ttl = %v, want 1h", store.ids[id.TokenID])
	}
	if _, err := m.Verify(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("Verify after revoke: %v, want ErrTokenRevoked", err)
	}
}

func TestJWTRejectsExpiredAndForeign(t *testing.T) {
	ctx := context.Background()
	m := NewJWTManager("secret", time.Minute, nil)
	token, err := m.Issue(ctx, Identity{Username: "ola", Role: RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	later := NewJWTManager("secret", time.Minute, nil)
	later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := later.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: %v, want ErrInvalidToken", err)
	}

	other := NewJWTManager("another-secret", time.Minute, nil)
	if _, err := other.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token: %v, want ErrInvalidToken", err)
	}

	if _, err := m.Verify(ctx, strings.Repeat("x", 20)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: %v, want ErrInvalidToken", err)
	}

	// Without a revocation store logout is a no-op.
	if err := m.Revoke(ctx, Identity{TokenID: "abc"}); err != nil {
		t.Errorf("Revoke without store: %v", err)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	static, err := ParseStaticTokens("svc-token:monitoring:user")
	if err != nil {
		t.Fatalf("ParseStaticTokens: %v", err)
	}
	store := &memRevocations{}
	jwtm := NewJWTManager("secret", time.Hour, store)
	v := Chain(jwtm, nil, static)

	if id, err := v.Verify(ctx, "svc-token"); err != nil || id.Username != "monitoring" {
		t.Errorf("static token = %+v, %v", id, err)
	}

	token, _ := jwtm.Issue(ctx, Identity{Username: "jan", Role: RoleUser})
	id, err := v.Verify(ctx, token)
	if err != nil || id.Username != "jan" {
		t.Fatalf("jwt = %+v, %v", id, err)
	}

	if _, err := v.Verify(ctx, "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unknown token: %v", err)
	}

	// A revoked JWT is not retried against the other verifiers.
	_ = jwtm.Revoke(ctx, id)
	if _, err := v.Verify(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("revoked token: %v, want ErrTokenRevoked", err)
	}
}
