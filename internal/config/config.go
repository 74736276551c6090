// Package config loads server settings from an optional JSON file.
// Fields omitted from the file keep their defaults, so partial configs
// are safe; command-line flags override the file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultListen = ":8080"
	DefaultDBFile = "hora.db"
)

// ServerConfig holds the server's file-configurable settings. Pointer
// fields distinguish "unset" from an explicit zero value.
type ServerConfig struct {
	Listen  *string `json:"listen,omitempty"`
	DBFile  *string `json:"db_file,omitempty"`
	Verbose *bool   `json:"verbose,omitempty"`
}

// Load reads a ServerConfig from a JSON file. The path must have a
// .json extension and the file is capped at 1MB.
func Load(path string) (*ServerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ServerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *ServerConfig) Validate() error {
	if c.Listen != nil && *c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.DBFile != nil && *c.DBFile == "" {
		return fmt.Errorf("db_file must not be empty")
	}
	return nil
}

// GetListen returns the configured listen address or the default.
func (c *ServerConfig) GetListen() string {
	if c != nil && c.Listen != nil {
		return *c.Listen
	}
	return DefaultListen
}

// GetDBFile returns the configured database path or the default.
func (c *ServerConfig) GetDBFile() string {
	if c != nil && c.DBFile != nil {
		return *c.DBFile
	}
	return DefaultDBFile
}

// GetVerbose returns the configured verbosity, defaulting to off.
func (c *ServerConfig) GetVerbose() bool {
	return c != nil && c.Verbose != nil && *c.Verbose
}
