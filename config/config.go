// Package config handles the user-editable YAML configuration.
// Environment variables are treated as read-only overrides at runtime.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoggingConfig controls the trace logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is persisted to a YAML file in the user scope.
type AppConfig struct {
	SaveDir string        `yaml:"save_dir"`
	Plain   bool          `yaml:"plain"`
	Seed    int64         `yaml:"seed"`
	Logging LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	home, _ := os.UserHomeDir()
	return AppConfig{
		SaveDir: filepath.Join(home, ".parleycore", "saves"),
		Plain:   false,
		Seed:    0,
		Logging: LoggingConfig{Level: "info", File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvSaveDir  = "PARLEY_SAVE_DIR"
	EnvPlain    = "PARLEY_PLAIN"
	EnvSeed     = "PARLEY_SEED"
	EnvLogLevel = "PARLEY_LOG_LEVEL"
	EnvLogFile  = "PARLEY_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "parleycore", "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and
// merges environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if strings.TrimSpace(src.SaveDir) != "" {
		dst.SaveDir = strings.TrimSpace(src.SaveDir)
	}
	// booleans: copy directly from the file so preferences persist
	dst.Plain = src.Plain
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvSaveDir)); v != "" {
		cfg.SaveDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPlain)); v != "" {
		lv := strings.ToLower(v)
		cfg.Plain = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
