package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	f := Flags()
	if err := f.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "data" || cfg.DBPath != "hskstudio.db" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionMinutes != 25 {
		t.Errorf("expected 25-minute default session, got %d", cfg.SessionMinutes)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	f := Flags()
	if err := f.Parse([]string{"--listen-addr", ":9999", "--session-minutes", "50"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":9999" || cfg.SessionMinutes != 50 {
		t.Errorf("expected flag overrides, got %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HSKS_DB_PATH", "/tmp/override.db")

	f := Flags()
	if err := f.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Errorf("expected env override, got %q", cfg.DBPath)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "listen_addr: \":7070\"\nsession_minutes: 45\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f := Flags()
	if err := f.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":7070" || cfg.SessionMinutes != 45 {
		t.Errorf("expected config file values, got %+v", cfg)
	}
}

func TestLoadRejectsInvalidSession(t *testing.T) {
	f := Flags()
	if err := f.Parse([]string{"--session-minutes", "0"}); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(f); err == nil {
		t.Error("expected a validation error for a zero-length session")
	}
}
