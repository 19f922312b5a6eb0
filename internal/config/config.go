package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/liam-witterick/pre-commit-trivy/internal/scanner"
)

// HookConfig represents the .github/pre-commit-trivy.yaml structure
type HookConfig struct {
	// Binary is the scanner executable to look up (defaults to "trivy")
	Binary   string   `yaml:"binary"`
	Defaults Defaults `yaml:"defaults"`

	// Path is the file the config was loaded from, empty if none
	Path string `yaml:"-"`
}

// Defaults override the built-in flag defaults for a repository.
// Empty values keep the built-in default.
type Defaults struct {
	Severity      string `yaml:"severity"`
	Format        string `yaml:"format"`
	ExitCode      *int   `yaml:"exit_code"`
	Scanners      string `yaml:"scanners"`
	Config        string `yaml:"config"`
	Timeout       string `yaml:"timeout"`
	SkipDBUpdate  bool   `yaml:"skip_db_update"`
	IgnoreUnfixed bool   `yaml:"ignore_unfixed"`
	TrivyIgnore   string `yaml:"trivyignore"`
}

// configPaths are checked in order; the first that exists wins
var configPaths = []string{
	".github/pre-commit-trivy.yaml",
	".github/pre-commit-trivy.yml",
}

// LoadHookConfig loads the hook configuration from dir.
// Returns a default config if no file exists.
func LoadHookConfig(dir string) (*HookConfig, error) {
	var configPath string
	for _, path := range configPaths {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
			break
		}
	}

	// Return default config if no file found
	if configPath == "" {
		return &HookConfig{}, nil
	}

	return LoadHookConfigFile(configPath)
}

// LoadHookConfigFile loads and validates a hook configuration file
func LoadHookConfigFile(path string) (*HookConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is a fixed repo-relative location
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg HookConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	cfg.Path = path
	return &cfg, nil
}

// Validate checks values that the command line would reject too
func (c *HookConfig) Validate() error {
	if c.Defaults.Format != "" {
		if _, err := scanner.ParseFormat(c.Defaults.Format); err != nil {
			return fmt.Errorf("defaults.format: %w", err)
		}
	}
	return nil
}

// BinaryName returns the scanner executable to look up
func (c *HookConfig) BinaryName() string {
	if c.Binary == "" {
		return scanner.DefaultBinary
	}
	return c.Binary
}
