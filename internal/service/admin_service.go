package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/model"
	"github.com/hdbaza/helpdesk-api/internal/repository"
)

// SystemActor is recorded as added_by for admins seeded at startup.
const SystemActor = "system"

// AdminService manages the admin directory.
type AdminService struct {
	repo     repository.AdminRepository
	defaults []string
	log      zerolog.Logger
}

// NewAdminService creates a new AdminService. defaults are the emails
// seeded by EnsureDefaults into an empty directory.
func NewAdminService(repo repository.AdminRepository, defaults []string, log zerolog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		defaults: defaults,
		log:      log.With().Str("component", "admin_service").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameFromEmail returns the local part of email.
func nameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

// EnsureDefaults seeds the configured default admins when the directory is
// empty and returns how many were inserted. Running it again is a no-op.
func (s *AdminService) EnsureDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, raw := range s.defaults {
		email := normalizeEmail(raw)
		if email == "" {
			continue
		}
		err := s.repo.Create(ctx, model.Admin{
			ID:        uuid.New().String(),
			Email:     email,
			Name:      nameFromEmail(email),
			AddedBy:   SystemActor,
			CreatedAt: model.Now(),
		})
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("seed admin %s: %w", email, err)
		}
		inserted++
		s.log.Info().Str("email", email).Msg("Default admin seeded")
	}
	return inserted, nil
}

// List returns every admin.
func (s *AdminService) List(ctx context.Context) ([]model.Admin, error) {
	return s.repo.List(ctx)
}

// Add inserts an admin. The email is stored lower-case; adding an email that
// differs only in case from an existing one is a conflict.
func (s *AdminService) Add(ctx context.Context, email, name, addedBy string) (model.Admin, error) {
	email = normalizeEmail(email)
	if email == "" {
		return model.Admin{}, ErrInvalidEmail
	}
	if strings.TrimSpace(name) == "" {
		name = nameFromEmail(email)
	}

	admin := model.Admin{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		AddedBy:   addedBy,
		CreatedAt: model.Now(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Admin{}, ErrAdminExists
		}
		return model.Admin{}, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info().Str("email", email).Str("added_by", addedBy).Msg("Admin added")
	return admin, nil
}

// Remove deletes an admin. The directory is never emptied: removing while
// at most one admin remains fails with ErrLastAdmin.
func (s *AdminService) Remove(ctx context.Context, email string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if n <= 1 {
		return ErrLastAdmin
	}

	email = normalizeEmail(email)
	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("delete admin: %w", err)
	}

	s.log.Info().Str("email", email).Msg("Admin removed")
	return nil
}

// IsAdmin reports whether email is in the directory, ignoring case.
func (s *AdminService) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup admin: %w", err)
	}
}
