package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Felici4no/RedeSentinela/internal/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Addr:            ":8080",
		JWTSecret:       "strongsecret",
		APITimeout:      5 * time.Second,
		DatabasePath:    "sentinela.db",
		TokenDuration:   1 * time.Hour,
		RefreshInterval: time.Minute,
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("SENTINELA_ENV", "production")
	defer os.Unsetenv("SENTINELA_ENV")

	cfg := baseConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("SENTINELA_ENV", "development")
	defer os.Unsetenv("SENTINELA_ENV")

	cfg := baseConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_RejectsBadDurations(t *testing.T) {
	cfg := baseConfig()
	cfg.TokenDuration = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for zero token_duration")
	}

	cfg = baseConfig()
	cfg.RefreshInterval = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for negative refresh_interval")
	}

	cfg = baseConfig()
	cfg.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for empty database_path")
	}
}

func TestLoadConfig_EnvDefaults(t *testing.T) {
	os.Setenv("SENTINELA_ADDR", ":9999")
	os.Setenv("SENTINELA_DATABASE_PATH", "/tmp/test.db")
	defer os.Unsetenv("SENTINELA_ADDR")
	defer os.Unsetenv("SENTINELA_DATABASE_PATH")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected addr from env got %q", cfg.Addr)
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Fatalf("expected database path from env got %q", cfg.DatabasePath)
	}
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("expected default token duration got %v", cfg.TokenDuration)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("expected default refresh interval got %v", cfg.RefreshInterval)
	}
}

func TestLoadConfig_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
addr: ":7070"
jwt_secret: "fromfile"
admin:
  email: "root@example.com"
  password: "changeme"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.JWTSecret != "fromfile" {
		t.Fatalf("yaml overrides not applied: %#v", cfg)
	}
	// durations keep their defaults when the file leaves them out
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("expected default token duration got %v", cfg.TokenDuration)
	}
	if cfg.Admin.Email != "root@example.com" {
		t.Fatalf("admin seed not parsed: %#v", cfg.Admin)
	}
}
