package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for modloader.
type Paths struct {
	// ConfigFile is the path to the config file (~/.modloader/config.yaml).
	ConfigFile string

	// HomeDir is the modloader home directory (~/.modloader).
	HomeDir string
}

// DefaultPaths returns the default paths for modloader.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".modloader")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// GetConfigFile returns the config file path.
// If MODLOADER_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("MODLOADER_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}
