// pkg/config/xdg.go

package config

import (
	"os"
	"path/filepath"
)

const appDirName = "bmcuflash"

// CacheDir returns the per-user cache root for downloaded tool archives,
// honouring XDG_CACHE_HOME.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, ".cache", appDirName)
}

// ConfigDir returns the per-user config root, honouring XDG_CONFIG_HOME.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

// ProfilePath is the saved interactive-selection profile location.
func ProfilePath() string {
	return filepath.Join(ConfigDir(), "profile.yaml")
}
