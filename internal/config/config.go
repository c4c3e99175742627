// Package config handles XDG configuration directory and file paths.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "showmetasks"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored access token filename.
	TokenFile = "token.json"

	// EnvAPIURL overrides the API base URL.
	EnvAPIURL = "SHOWMETASKS_API_URL"

	// DefaultAPIURL is used when neither the env nor the config file set one.
	DefaultAPIURL = "http://localhost:8080/api/todos"
)

// Settings is the content of config.yaml.
type Settings struct {
	APIURL string `yaml:"api_url"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings loaded from config.yaml, zero when the file is absent.
	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/showmetasks or $HOME/.config/showmetasks.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// APIURL returns the API base URL: the environment wins over config.yaml,
// which wins over the default.
func (c *Config) APIURL() string {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Settings.APIURL); v != "" {
		return v
	}
	return DefaultAPIURL
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
