// Package config handles the global pview configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/pview/config.yml.
type GlobalConfig struct {
	DataPath    string  `yaml:"data_path,omitempty" json:"data_path"`
	TopJournals int     `yaml:"top_journals,omitempty" json:"top_journals"`
	SampleSize  int     `yaml:"sample_size,omitempty" json:"sample_size"`
	ListenAddr  string  `yaml:"listen_addr,omitempty" json:"listen_addr"`
	RateLimit   float64 `yaml:"rate_limit,omitempty" json:"rate_limit"` // Requests per second for the dashboard server
	RateBurst   int     `yaml:"rate_burst,omitempty" json:"rate_burst"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "pview"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// DataPathEnv overrides data_path from the config file.
	DataPathEnv = "PVIEW_DATA_PATH"
)

// Defaults applied when a value is not configured.
const (
	DefaultTopJournals = 10
	DefaultSampleSize  = 5
	DefaultListenAddr  = "127.0.0.1:8501"
	DefaultRateLimit   = 20
	DefaultRateBurst   = 40
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pview/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DataPath != "" {
		cfg.DataPath = ExpandTilde(cfg.DataPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// Save writes the configuration to GlobalConfigPath, creating the directory.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	globalConfigCache = c
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// WithDefaults returns a copy with unset values replaced by defaults.
func (c GlobalConfig) WithDefaults() GlobalConfig {
	if c.TopJournals <= 0 {
		c.TopJournals = DefaultTopJournals
	}
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultRateBurst
	}
	return c
}

// GetDataPath returns the data path, preferring PVIEW_DATA_PATH over the
// config file.
func GetDataPath() string {
	if v := os.Getenv(DataPathEnv); v != "" {
		return ExpandTilde(v)
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.DataPath
}

// ErrDataPathNotConfigured is returned when no data path is set anywhere.
var ErrDataPathNotConfigured = errors.New("data_path not configured")

// ErrDataPathNotExist is returned when the configured data file doesn't exist.
var ErrDataPathNotExist = errors.New("data_path does not exist")

// ResolveDataPath picks the data file: override (e.g. a --data flag) first,
// then PVIEW_DATA_PATH, then data_path from the config file. The file must
// exist and not be a directory.
func ResolveDataPath(override string) (string, error) {
	path := ExpandTilde(override)
	if path == "" {
		path = GetDataPath()
	}
	if path == "" {
		return "", ErrDataPathNotConfigured
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDataPathNotExist, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("data_path is a directory: %s", path)
	}
	return path, nil
}

// HelpfulConfigMessage returns a helpful message when data_path is not configured.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No data file configured.

Tip: point pview at a CORD-19 style metadata.csv:
  pview config data-path /path/to/metadata.csv

or create %s:
  mkdir -p %s
  echo 'data_path: /path/to/metadata.csv' > %s

%s and --data override the config file.`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		DataPathEnv)
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
