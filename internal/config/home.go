package config

import (
	"os"
	"path/filepath"
)

const (
	// StateHomeEnv is the XDG state directory variable
	StateHomeEnv = "XDG_STATE_HOME"
	// AppDir is the directory name under the state home
	AppDir = "relpub"
	// LogsSubdir holds rotated log files
	LogsSubdir = "logs"
)

// StateHome returns $XDG_STATE_HOME/relpub, defaulting to ~/.local/state/relpub.
func StateHome() (string, error) {
	if dir := os.Getenv(StateHomeEnv); dir != "" {
		return filepath.Join(dir, AppDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", AppDir), nil
}

// DefaultLogsDir returns the log directory under StateHome.
func DefaultLogsDir() (string, error) {
	home, err := StateHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LogsSubdir), nil
}
