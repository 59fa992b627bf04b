package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents CLI user preferences stored in ~/.kyogre/config.json.
// This file stores ONLY preferences, never credentials or secrets.
type UserConfig struct {
	// DefaultVesselID is used by CLI subcommands that accept an optional
	// vessel argument (e.g. inspecting a single vessel's orchestrator state)
	DefaultVesselID     *int64 `json:"default_vessel_id,omitempty"`

	// DefaultOutputFormat controls CLI output rendering when not given
	// explicitly (e.g. "table" or "json")
	DefaultOutputFormat string `json:"default_output_format,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a new user config handler
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".kyogre")
	configPath := filepath.Join(configDir, "config.json")

	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &UserConfigHandler{
		configPath: configPath,
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	// If file doesn't exist, return empty config
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultVessel sets the default vessel ID
func (h *UserConfigHandler) SetDefaultVessel(vesselID int64) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultVesselID = &vesselID
	return h.Save(config)
}

// SetDefaultOutputFormat sets the default CLI output format
func (h *UserConfigHandler) SetDefaultOutputFormat(format string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultOutputFormat = format
	return h.Save(config)
}

// ClearDefaultVessel removes the default vessel setting
func (h *UserConfigHandler) ClearDefaultVessel() error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultVesselID = nil
	return h.Save(config)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
