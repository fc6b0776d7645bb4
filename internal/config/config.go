package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "hued"
	configFile = "config.yaml"
)

// Settings represents the optional daemon configuration file.
// Every field has a built-in default matching the classic daemon behavior,
// so the file is only needed to deviate from it. Command-line flags take
// precedence over values loaded from this file.
type Settings struct {
	// ListenAddress is the local address the multicast socket binds to.
	ListenAddress string `yaml:"listen_address"`
	// MulticastGroup is the SSDP group address joined for discovery queries.
	MulticastGroup string `yaml:"multicast_group"`
	// RefreshInterval is the minimum number of seconds between two
	// description.xml fetches from the bridge.
	RefreshInterval int `yaml:"refresh_interval"`
	// LogLevel controls logging verbosity (debug, info, warn, error).
	// Empty means silent.
	LogLevel string `yaml:"log_level,omitempty"`
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		ListenAddress:   "0.0.0.0",
		MulticastGroup:  "239.255.255.250",
		RefreshInterval: 300,
	}
}

// Refresh returns the refresh interval as a time.Duration.
func (s *Settings) Refresh() time.Duration {
	return time.Duration(s.RefreshInterval) * time.Second
}

// GetConfigDir returns the OS-appropriate configuration directory for the
// application. This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/hued or $HOME/.config/hued
//   - macOS: $HOME/.config/hued (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\hued
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems: Use XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads Settings from the given path. An empty path means the default
// location (see GetConfigPath). A missing file is not an error: defaults are
// returned. A file that exists but cannot be read or parsed is an error,
// since a half-applied configuration is worse than none.
func Load(path string) (*Settings, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := NewSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return settings, nil
}

func (s *Settings) validate() error {
	if s.ListenAddress == "" {
		return fmt.Errorf("listen_address must not be empty")
	}
	if s.MulticastGroup == "" {
		return fmt.Errorf("multicast_group must not be empty")
	}
	if s.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %d", s.RefreshInterval)
	}
	return nil
}
