package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "bujo"

// DefaultConfigDir returns the OS-appropriate default config directory for bujo.
//
//   - macOS:   ~/Library/Application Support/bujo
//   - Linux:   $XDG_CONFIG_HOME/bujo (fallback ~/.config/bujo)
//   - Windows: %APPDATA%\bujo (fallback %LOCALAPPDATA%\bujo)
func DefaultConfigDir() string {
	return defaultConfigDirForOS(runtime.GOOS)
}

func defaultConfigDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, appName)
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".config", appName)
	}
}

// ConfigPath returns $BUJO_CONFIG if set, else config.yaml in DefaultConfigDir.
func ConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandHome(p)
	}
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
