package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/autochangelog/config.yml
// - macOS: ~/Library/Application Support/autochangelog/config.yml
// - Windows: %APPDATA%\autochangelog\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autochangelog", "config.yml"), nil
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".autochangelog"
}

// ProjectConfigPath returns the path to the project-level YAML config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectJSONConfigPath returns the path to the project-level JSON config file.
func ProjectJSONConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.json")
}

// DotEnvPath returns the .env file consulted for credentials.
func DotEnvPath() string {
	return ".env"
}
