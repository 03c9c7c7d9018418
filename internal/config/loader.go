package config

import (
	"errors"
	"os"
	"path/filepath"

	"powerisland/pkg/logging"
)

const (
	userConfigDir  = ".config/powerisland"
	configFileName = "config.yaml"
)

// DefaultConfigPath returns the path of the user configuration file.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", &ConfigError{
			ErrorType: ErrorTypeIO,
			Message:   "could not determine user home directory",
			Err:       err,
		}
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// Load reads and resolves the configuration file at the given path. A missing
// file is not an error: the compiled defaults are returned so the module
// still comes up with a usable configuration.
func Load(path string) (MainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config file at %s, using defaults", path)
			return DefaultMain(), nil
		}
		return MainConfig{}, &ConfigError{
			FilePath:  path,
			ErrorType: ErrorTypeIO,
			Message:   "failed to read configuration",
			Err:       err,
		}
	}

	overlay, err := ParseOverlayMain(data)
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.FilePath = path
		}
		return MainConfig{}, err
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return overlay.ResolveMain(), nil
}
