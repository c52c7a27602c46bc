package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"wildcard", "*", nil},
		{"single", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"trims and skips blanks", " a@x.pl , ,B@y.pl ", []string{"a@x.pl", "B@y.pl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseList(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "not-a-number")
	t.Setenv("DEFAULT_ADMINS", "")
	t.Setenv("ADMIN_EMAIL", "it@firma.pl")

	cfg := Load()

	if cfg.StorageDriver != StorageMemory {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, StorageMemory)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("MaxUploadBytes = %d, want fallback of 10 MB", cfg.MaxUploadBytes)
	}
	if !reflect.DeepEqual(cfg.DefaultAdmins, []string{"it@firma.pl"}) {
		t.Errorf("DefaultAdmins = %v, want ADMIN_EMAIL fallback", cfg.DefaultAdmins)
	}
}
