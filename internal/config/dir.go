// Package config loads the stint configuration: work policy, recurring
// meetings, repository and Clockify identifiers.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the stint configuration directory.
//
// Resolution:
//   - $STINT_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/stint if set (respects XDG on any platform)
//   - %AppData%/stint on Windows
//   - ~/.config/stint on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("STINT_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stint")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "stint")
		}
	}

	// macOS and Linux: ~/.config/stint
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "stint")
}
