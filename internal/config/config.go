package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NicabarNimble/go-gitscaffold/internal/errors"
	"github.com/NicabarNimble/go-gitscaffold/internal/token"
)

// Config holds the optional user settings of gitscaffold
type Config struct {
	EnvFile   string `yaml:"env_file"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// DefaultConfig provides default configuration values
func DefaultConfig() *Config {
	return &Config{
		EnvFile:   token.DefaultEnvFile,
		LogLevel:  "warn",
		LogFormat: "console",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gitscaffold/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gitscaffold", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Newf(errors.OpConfig, "failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gitscaffold", "config.yaml"), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Newf(errors.OpConfig, "failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Newf(errors.OpConfig, "failed to parse config file %s: %w", path, err)
	}

	cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeDefaults merges default values for unset fields
func (c *Config) MergeDefaults() {
	defaults := DefaultConfig()
	if c.EnvFile == "" {
		c.EnvFile = defaults.EnvFile
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.EnvFile) == "" {
		return errors.Newf(errors.OpConfig, "env file path cannot be empty")
	}
	if !contains(validLevels, c.LogLevel) {
		return errors.Newf(errors.OpConfig, "invalid log level %q, expected one of %s", c.LogLevel, strings.Join(validLevels, ", "))
	}
	if !contains(validFormats, c.LogFormat) {
		return errors.Newf(errors.OpConfig, "invalid log format %q, expected one of %s", c.LogFormat, strings.Join(validFormats, ", "))
	}
	return nil
}

// ResolvedEnvFile returns EnvFile with a leading "~" expanded to the user's
// home directory.
func (c *Config) ResolvedEnvFile() (string, error) {
	return ExpandHome(c.EnvFile)
}

// ExpandHome expands a leading "~" or "~/" in path
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Newf(errors.OpConfig, "failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
