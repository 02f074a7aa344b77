// Package config resolves the garden CLI's settings once, at the command
// boundary, so the capture packages never read the environment themselves.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user config directory.
const appName = "garden"

// defaultGardenDirName is the garden directory under the home directory.
const defaultGardenDirName = ".garden"

// Dir returns the garden configuration directory.
//
// Resolution:
//   - $GARDEN_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/garden if set (respects XDG on any platform)
//   - %AppData%/garden on Windows
//   - ~/.config/garden on macOS and Linux
func Dir() string {
	if dir := os.Getenv("GARDEN_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultGardenDir returns ~/.garden.
func DefaultGardenDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultGardenDirName), nil
}

// expandHome replaces a leading ~ with the home directory. Paths from the
// command line are expanded by the shell; paths from config files are not.
func expandHome(path string) string {
	if path != "~" && !hasHomePrefix(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func hasHomePrefix(path string) bool {
	return len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator)
}
