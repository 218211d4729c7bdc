package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/hfvoice_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.TokenTTLHours != 12 {
		t.Errorf("expected default token ttl 12, got %d", cfg.TokenTTLHours)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestValidate_DevSubstitutesSecret(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 12}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected dev secret to be substituted")
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Env: "production", TokenTTLHours: 12}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing JWT_SECRET in production")
	}

	cfg.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short JWT_SECRET in production")
	}

	cfg.JWTSecret = "a-sufficiently-long-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_TokenTTL(t *testing.T) {
	cfg := &Config{Env: "development", TokenTTLHours: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive token ttl")
	}
}
