package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hdbaza/helpdesk-api/internal/config"
)

// Claims extends JWT standard claims with the caller's identity.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// RevocationStore remembers logged-out token IDs until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTManager issues, verifies and revokes HS256 tokens.
type JWTManager struct {
	secret  []byte
	expiry  time.Duration
	revoked RevocationStore
	now     func() time.Time
}

// NewJWTManager creates a JWTManager. revoked may be nil, in which case
// logout cannot invalidate tokens before they expire.
func NewJWTManager(secret string, expiry time.Duration, revoked RevocationStore) *JWTManager {
	return &JWTManager{
		secret:  []byte(secret),
		expiry:  expiry,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue implements Issuer.
func (m *JWTManager) Issue(_ context.Context, id Identity) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
		Email: id.Email,
		Role:  id.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify implements Verifier.
func (m *JWTManager) Verify(ctx context.Context, tokenStr string) (Identity, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return Identity{}, err
	}

	if m.revoked != nil && claims.ID != "" {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Identity{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return Identity{}, ErrTokenRevoked
		}
	}

	return Identity{
		Username: claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}, nil
}

// Revoke implements Revoker. The denylist entry lives as long as the token
// could still be valid.
func (m *JWTManager) Revoke(ctx context.Context, id Identity) error {
	if m.revoked == nil || id.TokenID == "" {
		return nil
	}
	return m.revoked.Revoke(ctx, id.TokenID, m.expiry)
}

// RedisRevocations keeps the logout denylist in Redis.
type RedisRevocations struct {
	rdb *redis.Client
}

// NewRedisRevocations creates a RedisRevocations.
func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb}
}

// Revoke implements RevocationStore.
func (r *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, config.CacheKey.RevokedTokenKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("store revocation: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationStore.
func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, config.CacheKey.RevokedTokenKey(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
