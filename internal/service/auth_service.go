package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/model"
)

// AuthService handles login, logout and role resolution.
type AuthService struct {
	verifier auth.Verifier
	authn    auth.Authenticator
	issuer   auth.Issuer
	revoker  auth.Revoker
	admins   *AdminService
	log      zerolog.Logger
}

// AuthConfig wires the pluggable auth parts. Authenticator, Issuer and
// Revoker may be nil; without the first two password login is disabled.
type AuthConfig struct {
	Verifier      auth.Verifier
	Authenticator auth.Authenticator
	Issuer        auth.Issuer
	Revoker       auth.Revoker
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthConfig, admins *AdminService, log zerolog.Logger) *AuthService {
	return &AuthService{
		verifier: cfg.Verifier,
		authn:    cfg.Authenticator,
		issuer:   cfg.Issuer,
		revoker:  cfg.Revoker,
		admins:   admins,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// Verify resolves a bearer token to an identity.
func (s *AuthService) Verify(ctx context.Context, token string) (auth.Identity, error) {
	return s.verifier.Verify(ctx, token)
}

// Login checks the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.LoginResponse, error) {
	if s.authn == nil || s.issuer == nil {
		return model.LoginResponse{}, ErrLoginDisabled
	}

	id, err := s.authn.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.Warn().Str("username", username).Msg("Failed login")
			return model.LoginResponse{}, ErrInvalidCredentials
		}
		return model.LoginResponse{}, fmt.Errorf("authenticate: %w", err)
	}

	token, err := s.issuer.Issue(ctx, id)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("issue token: %w", err)
	}

	role, err := s.EffectiveRole(ctx, id)
	if err != nil {
		return model.LoginResponse{}, err
	}

	s.log.Info().Str("username", id.Username).Str("role", string(role)).Msg("Login")
	return model.LoginResponse{Token: token, Role: string(role), Username: id.Username}, nil
}

// Logout revokes the token the identity came from, when revocation is
// configured.
func (s *AuthService) Logout(ctx context.Context, id auth.Identity) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, id); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// EffectiveRole is admin when the identity carries the admin role or its
// email is in the admin directory.
func (s *AuthService) EffectiveRole(ctx context.Context, id auth.Identity) (auth.Role, error) {
	if id.IsAdmin() {
		return auth.RoleAdmin, nil
	}
	if s.admins == nil {
		return auth.RoleUser, nil
	}
	ok, err := s.admins.IsAdmin(ctx, id.Email)
	if err != nil {
		return "", err
	}
	if ok {
		return auth.RoleAdmin, nil
	}
	return auth.RoleUser, nil
}
