package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setHome points os.UserHomeDir at a temp dir and clears the override
// env vars so tests see only what they set themselves.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{EnvSaveDir, EnvPlain, EnvSeed, EnvLogLevel, EnvLogFile} {
		t.Setenv(env, "")
	}
	return home
}

func TestDefaults(t *testing.T) {
	home := setHome(t)
	cfg := Defaults()

	if cfg.SaveDir != filepath.Join(home, ".parleycore", "saves") {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if cfg.Plain {
		t.Error("Plain should default to false")
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	setHome(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, ".config", "parleycore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
save_dir: /tmp/custom-saves
plain: true
seed: 99
logging:
  level: DEBUG
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SaveDir != "/tmp/custom-saves" {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if !cfg.Plain {
		t.Error("Plain should be true from file")
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	// Level is normalized to lowercase.
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, ".config", "parleycore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setHome(t)
	t.Setenv(EnvSaveDir, "/tmp/env-saves")
	t.Setenv(EnvPlain, "yes")
	t.Setenv(EnvSeed, "1234")
	t.Setenv(EnvLogLevel, "WARN")
	t.Setenv(EnvLogFile, "/tmp/parley.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SaveDir != "/tmp/env-saves" {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if !cfg.Plain {
		t.Error("Plain should be true from env")
	}
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.File != "/tmp/parley.log" {
		t.Errorf("Logging.File = %q", cfg.Logging.File)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	home := setHome(t)
	dir := filepath.Join(home, ".config", "parleycore")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("seed: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvSeed, "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != 10 {
		t.Errorf("Seed = %d, want env override 10", cfg.Seed)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	setHome(t)
	want := Defaults()
	want.Seed = 7
	want.Logging.Level = "debug"

	if err := Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Seed != 7 || got.Logging.Level != "debug" {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestEnvSeed_Invalid(t *testing.T) {
	setHome(t)
	t.Setenv(EnvSeed, "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want default 0 for invalid env value", cfg.Seed)
	}
}
