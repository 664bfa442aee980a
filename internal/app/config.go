package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL           string `yaml:"base_url"`
	Theme             string `yaml:"theme"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	ProgressTickMs    int    `yaml:"progress_tick_ms"`
	RevealTickMs      int    `yaml:"reveal_tick_ms"`
	LogFile           string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:8000",
		Theme:             "dark",
		RequestTimeoutSec: 120,
		ProgressTickMs:    120,
		RevealTickMs:      30,
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Theme != "light" && cfg.Theme != "dark" {
		cfg.Theme = "dark"
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 120
	}
	if cfg.ProgressTickMs <= 0 {
		cfg.ProgressTickMs = 120
	}
	if cfg.RevealTickMs <= 0 {
		cfg.RevealTickMs = 30
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "docuchat", "config.yml")
}

func DefaultLogPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "docuchat", "docuchat.log")
}
