package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paleolimbot/strativerse/pkg/config"
	"github.com/paleolimbot/strativerse/pkg/templates"
	"gopkg.in/yaml.v3"
)

// GetConfigDir returns the configuration directory for Strativerse.
// Uses ~/.config/strativerse/ on all platforms for consistency.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "strativerse"), nil
}

// GetDefaultConfigPath returns the full path to the default config
// file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// GenerateDefaultConfig creates a documented default config file at
// the default location. Does NOT overwrite an existing file. Returns
// the path where the file was created.
func GenerateDefaultConfig() (string, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}

	// The embedded template must stay in sync with the Config struct.
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(templates.ConfigYAML), &cfg); err != nil {
		return "", fmt.Errorf("embedded config template is malformed: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(
		configPath, []byte(templates.ConfigYAML), 0644,
	); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// ConfigFileExists checks if a config file exists at the default
// location.
func ConfigFileExists() (bool, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
