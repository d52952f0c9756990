package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = "relpub.yaml"
	// EnvPrefix prefixes environment overrides, e.g. RELPUB_STORE_BACKEND
	EnvPrefix = "RELPUB"
)

// Loader handles loading and parsing of relpub configuration
type Loader struct {
	workDir  string
	explicit string
	viper    *viper.Viper
}

// NewLoader creates a loader reading relpub.yaml from workDir. A non-empty
// path overrides the file location and must exist.
func NewLoader(workDir, path string) *Loader {
	return &Loader{
		workDir:  workDir,
		explicit: path,
		viper:    viper.New(),
	}
}

// ConfigPath returns the full path to the config file
func (l *Loader) ConfigPath() string {
	if l.explicit != "" {
		if filepath.IsAbs(l.explicit) {
			return l.explicit
		}
		return filepath.Join(l.workDir, l.explicit)
	}
	return filepath.Join(l.workDir, ConfigFileName)
}

// Exists checks if the configuration file exists
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.ConfigPath())
	return err == nil
}

// Load merges defaults, the config file (when present) and RELPUB_* environment
// variables, in increasing precedence.
func (l *Loader) Load() (*Config, error) {
	configPath := l.ConfigPath()

	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()

	defaults := DefaultConfig()
	l.viper.SetDefault("registry.local_namespace", defaults.Registry.LocalNamespace)
	l.viper.SetDefault("registry.remote_namespace", defaults.Registry.RemoteNamespace)
	l.viper.SetDefault("services", defaults.Services)
	l.viper.SetDefault("store.backend", defaults.Store.Backend)
	l.viper.SetDefault("store.command", defaults.Store.Command)
	l.viper.SetDefault("store.docker_config", defaults.Store.DockerConfig)
	l.viper.SetDefault("logging.file_enabled", defaults.Logging.FileEnabled)
	l.viper.SetDefault("logging.dir", defaults.Logging.Dir)
	l.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	l.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	l.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	if _, err := os.Stat(configPath); err == nil {
		l.viper.SetConfigFile(configPath)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	} else if l.explicit != "" {
		return nil, &ConfigNotFoundError{Path: configPath}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// ConfigFileUsed returns the file Load read, or "" when defaults applied.
func (l *Loader) ConfigFileUsed() string {
	return l.viper.ConfigFileUsed()
}

// ConfigNotFoundError is returned when an explicitly requested config file doesn't exist
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// IsConfigNotFound returns true if the error is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	var target *ConfigNotFoundError
	return errors.As(err, &target)
}
