package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/lightbox/internal/models"
)

const configFile = ".lightbox/config.json"

// Path returns the config file location under baseDir
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// Load reads the config from disk
func Load(baseDir string) (*models.Config, error) {
	configPath := Path(baseDir)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Config{}, nil
		}
		return nil, err
	}

	var cfg models.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *models.Config) error {
	configPath := Path(baseDir)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// SetCloseLabel sets the synthesized close control label
func SetCloseLabel(baseDir string, label string) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}

	cfg.CloseLabel = label
	return Save(baseDir, cfg)
}

// SetLogLevel sets the log level
func SetLogLevel(baseDir string, level models.LogLevel) error {
	if !models.IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level %q", level)
	}
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}

	cfg.LogLevel = level
	return Save(baseDir, cfg)
}

// SetHistory enables or disables the history stack
func SetHistory(baseDir string, enabled bool) error {
	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}

	cfg.History = &enabled
	return Save(baseDir, cfg)
}
