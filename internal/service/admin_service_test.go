package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/auth"
	"github.com/hdbaza/helpdesk-api/internal/repository/memstore"
)

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.admins.EnsureDefaults(ctx)
	if err != nil || n != 1 {
		t.Fatalf("EnsureDefaults = %d, %v; want 1, nil", n, err)
	}
	n, err = f.admins.EnsureDefaults(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second EnsureDefaults = %d, %v; want 0, nil", n, err)
	}

	admins, err := f.admins.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("admins = %v, want one", admins)
	}
	a := admins[0]
	if a.Email != "admin@twoja-domena.pl" || a.Name != "admin" || a.AddedBy != SystemActor {
		t.Errorf("seeded admin = %+v", a)
	}
}

func TestListDoesNotSeed(t *testing.T) {
	f := newFixture(t)
	admins, err := f.admins.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(admins) != 0 {
		t.Errorf("List seeded %d admins", len(admins))
	}
}

func TestAddAndRemoveAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.admins.EnsureDefaults(ctx); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	if err := f.admins.Remove(ctx, "admin@twoja-domena.pl"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("removing the only admin: %v, want ErrInvalidOperation", err)
	}

	added, err := f.admins.Add(ctx, "Ewa.Nowak@Firma.PL", "Ewa Nowak", "admin@twoja-domena.pl")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.Email != "ewa.nowak@firma.pl" {
		t.Errorf("email = %q, want lower-case", added.Email)
	}

	if _, err := f.admins.Add(ctx, "EWA.NOWAK@firma.pl", "Ewa", "x"); !errors.Is(err, ErrConflict) {
		t.Errorf("case-variant duplicate: %v, want ErrConflict", err)
	}

	ok, err := f.admins.IsAdmin(ctx, "EWA.nowak@FIRMA.pl")
	if err != nil || !ok {
		t.Errorf("IsAdmin = %v, %v; want true", ok, err)
	}

	if err := f.admins.Remove(ctx, "nikt@firma.pl"); !errors.Is(err, ErrAdminNotFound) {
		t.Errorf("removing unknown: %v, want ErrAdminNotFound", err)
	}
	if err := f.admins.Remove(ctx, "EWA.NOWAK@FIRMA.PL"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, _ := f.admins.IsAdmin(ctx, "ewa.nowak@firma.pl"); ok {
		t.Error("removed admin still reported as admin")
	}
}

type stubAuthenticator struct {
	id auth.Identity
}

func (s stubAuthenticator) Authenticate(_ context.Context, username, password string) (auth.Identity, error) {
	if username != s.id.Username || password != "haslo" {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	return s.id, nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(_ context.Context, id auth.Identity) (string, error) {
	return "token-" + id.Username, nil
}

func TestLoginResolvesRoleFromDirectory(t *testing.T) {
	store := memstore.New()
	log := zerolog.Nop()
	admins := NewAdminService(store.Admins, []string{"it@firma.pl"}, log)
	if _, err := admins.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	svc := NewAuthService(AuthConfig{
		Authenticator: stubAuthenticator{id: auth.Identity{Username: "it", Email: "it@firma.pl", Role: auth.RoleUser}},
		Issuer:        stubIssuer{},
	}, admins, log)

	resp, err := svc.Login(context.Background(), "it", "haslo")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Role != string(auth.RoleAdmin) || resp.Token != "token-it" || resp.Username != "it" {
		t.Errorf("response = %+v", resp)
	}

	if _, err := svc.Login(context.Background(), "it", "zle"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("bad password: %v, want ErrUnauthorized", err)
	}

	disabled := NewAuthService(AuthConfig{}, admins, log)
	if _, err := disabled.Login(context.Background(), "it", "haslo"); !errors.Is(err, ErrLoginDisabled) {
		t.Errorf("login without authenticator: %v, want ErrLoginDisabled", err)
	}
}
