package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default configuration file name.
	DefaultConfigFile = ".badwords"

	// xdgConfigFile is the configuration file name inside XDGConfigDir.
	xdgConfigFile = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .badwords configuration file.
type File struct {
	// Language is the default word list identifier.
	Language string `yaml:"language,omitempty"`

	// Exclude lists glob patterns that are always excluded.
	Exclude []string `yaml:"exclude,omitempty"`

	// BaseURL overrides the word list location.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Proxy is a SOCKS5 proxy address for the word list request.
	Proxy string `yaml:"proxy,omitempty"`

	// Workers is the number of files matched concurrently.
	Workers int `yaml:"workers,omitempty"`
}

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .badwords in the scan root
// 3. Look for .badwords in the current directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath, root string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if root != "" {
		candidates = append(candidates, filepath.Join(root, DefaultConfigFile))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate
		}
	}

	return ""
}

// ApplyFile merges the configuration file into c.
//
// Values given on the command line win: a file value is only used when the
// corresponding option still holds its zero or default value. Exclude
// patterns from the file are appended to the command line patterns.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if c.Language == "" {
		c.Language = f.Language
	}
	if f.BaseURL != "" && (c.BaseURL == "" || c.BaseURL == DefaultBaseURL) {
		c.BaseURL = f.BaseURL
	}
	if c.ProxyAddress == "" {
		c.ProxyAddress = f.Proxy
	}
	if f.Workers > 0 && (c.Workers <= 0 || c.Workers == DefaultWorkers) {
		c.Workers = f.Workers
	}
	c.Excludes = append(c.Excludes, f.Exclude...)
}
