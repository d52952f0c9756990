package config

import (
	"github.com/schmitthub/relpub/internal/logger"
	"github.com/schmitthub/relpub/internal/release"
)

// Store backends.
const (
	BackendEngine = "engine"
	BackendCLI    = "cli"
)

// Backends lists the accepted store.backend values.
var Backends = []string{BackendEngine, BackendCLI}

// Config represents the root configuration structure for relpub.yaml
type Config struct {
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Services []string       `yaml:"services" mapstructure:"services"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// RegistryConfig names where images are read from and published to
type RegistryConfig struct {
	// LocalNamespace prefixes the locally built images, e.g. "scion".
	LocalNamespace string `yaml:"local_namespace" mapstructure:"local_namespace"`
	// RemoteNamespace prefixes the published images, e.g. "docker.io/scionproto".
	RemoteNamespace string `yaml:"remote_namespace" mapstructure:"remote_namespace"`
}

// Naming returns the reference naming for these namespaces.
func (r RegistryConfig) Naming() release.Naming {
	return release.Naming{
		LocalNamespace:  r.LocalNamespace,
		RemoteNamespace: r.RemoteNamespace,
	}
}

// StoreConfig selects the image store implementation
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Command is the container CLI invocation used by the cli backend.
	Command string `yaml:"command" mapstructure:"command"`
	// DockerConfig is the directory holding the docker login config.json used
	// by the engine backend ("" means $DOCKER_CONFIG or ~/.docker).
	DockerConfig string `yaml:"docker_config,omitempty" mapstructure:"docker_config"`
}

// LoggingConfig controls the optional rotating log file
type LoggingConfig struct {
	FileEnabled bool   `yaml:"file_enabled" mapstructure:"file_enabled"`
	Dir         string `yaml:"dir,omitempty" mapstructure:"dir"`
	MaxSizeMB   int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxAgeDays  int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	MaxBackups  int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// LoggerConfig converts to the logger package's settings.
func (l LoggingConfig) LoggerConfig() *logger.LoggingConfig {
	return &logger.LoggingConfig{
		FileEnabled: l.FileEnabled,
		MaxSizeMB:   l.MaxSizeMB,
		MaxAgeDays:  l.MaxAgeDays,
		MaxBackups:  l.MaxBackups,
	}
}

// LogsDir returns the configured log directory, or the default state directory.
func (l LoggingConfig) LogsDir() (string, error) {
	if l.Dir != "" {
		return l.Dir, nil
	}
	return DefaultLogsDir()
}
