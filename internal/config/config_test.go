package config

import "testing"

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.JWT.AccessExpiry != 900 {
		t.Errorf("access expiry = %d", cfg.JWT.AccessExpiry)
	}
	if cfg.JWT.RefreshExpiry != 604800 {
		t.Errorf("refresh expiry = %d", cfg.JWT.RefreshExpiry)
	}
	if cfg.JWT.EmailExpiry != 604800 {
		t.Errorf("email expiry = %d", cfg.JWT.EmailExpiry)
	}
	if cfg.Auth.RequireConfirmed {
		t.Error("confirmation requirement must default off")
	}
	if cfg.RateLimit.PerIP != "100-M" {
		t.Errorf("per-ip rate = %q", cfg.RateLimit.PerIP)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("smtp port = %d", cfg.SMTP.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_ACCESS_EXPIRY", "60")
	t.Setenv("AUTH_REQUIRE_CONFIRMED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.JWT.AccessExpiry != 60 {
		t.Errorf("access expiry = %d", cfg.JWT.AccessExpiry)
	}
	if !cfg.Auth.RequireConfirmed {
		t.Error("confirmation requirement not applied")
	}
}
