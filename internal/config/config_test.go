package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("COACH_SHARE_PERCENT", "")
	t.Setenv("ADMIN_RATE_LIMIT", "")
	t.Setenv("ADMIN_RATE_WINDOW", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.AppEnv != "development" || !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %q", cfg.AppEnv)
	}
	if cfg.CoachSharePercent.IntPart() != 80 {
		t.Fatalf("expected default coach share 80, got %s", cfg.CoachSharePercent)
	}
	if cfg.AdminRateLimit != 30 || cfg.AdminRateWindow != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %d per %s", cfg.AdminRateLimit, cfg.AdminRateWindow)
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"COACH_SHARE_PERCENT": "120",
		"ADMIN_RATE_LIMIT":    "zero",
		"ADMIN_RATE_WINDOW":   "soon",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(key, value)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"prod":    "production",
		" Stage ": "staging",
		"testing": "test",
		"custom":  "custom",
	}
	for input, want := range cases {
		if got := normalizeEnv(input); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", input, got, want)
		}
	}
}
