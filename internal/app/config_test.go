package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_ThemeIsDark(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != "dark" {
		t.Fatalf("DefaultConfig().Theme = %q, want %q", cfg.Theme, "dark")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.yml"))
	if err != nil {
		t.Fatalf("LoadConfig on missing file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_FillsInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := "base_url: \"\"\ntheme: neon\nrequest_timeout_sec: -3\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Theme != "dark" {
		t.Fatalf("unknown theme normalized to %q, want dark", cfg.Theme)
	}
	if cfg.RequestTimeoutSec != 120 {
		t.Fatalf("RequestTimeoutSec = %d, want 120", cfg.RequestTimeoutSec)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")

	cfg := DefaultConfig()
	cfg.Theme = "light"
	cfg.BaseURL = "http://docuai.internal:9000"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, cfg)
	}
}
