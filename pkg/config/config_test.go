package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JOURNEY_API_URL", "JOURNEY_DB", "JOURNEY_GEOCODE_URL", "JOURNEY_HTTP_TIMEOUT",
		"JOURNEY_REDIS_ADDR", "JOURNEY_REDIS_PASSWORD", "JOURNEY_UPLOAD_POLICY", "JOURNEY_PLACE_POLICY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.UploadPolicy != "all-or-nothing" || cfg.PlacePolicy != "drop-blank" {
		t.Errorf("unexpected default policies: %s / %s", cfg.UploadPolicy, cfg.PlacePolicy)
	}
	if cfg.RedisEnabled() {
		t.Errorf("redis should be disabled without an address")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	envPath := filepath.Join(t.TempDir(), ".env")
	content := "JOURNEY_API_URL=https://journey.example/api\nJOURNEY_HTTP_TIMEOUT=5\nJOURNEY_REDIS_ADDR=localhost:6379\nJOURNEY_PLACE_POLICY=drop-empty\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		for _, k := range []string{"JOURNEY_API_URL", "JOURNEY_HTTP_TIMEOUT", "JOURNEY_REDIS_ADDR", "JOURNEY_PLACE_POLICY"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "https://journey.example/api" {
		t.Errorf("unexpected API URL: %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("expected bare seconds to parse, got %v", cfg.HTTPTimeout)
	}
	if !cfg.RedisEnabled() {
		t.Errorf("expected redis to be enabled")
	}
	if cfg.PlacePolicy != "drop-empty" {
		t.Errorf("unexpected place policy: %s", cfg.PlacePolicy)
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOURNEY_UPLOAD_POLICY", "sometimes")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "JOURNEY_UPLOAD_POLICY") {
		t.Errorf("unexpected error: %v", err)
	}
}
