// Package config provides layered libtools configuration: defaults, the
// user file, the project file and LIBTOOLS_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in configuration paths.
const AppName = "libtools"

// ConfigFileName is the name of the user configuration file (without extension).
const ConfigFileName = "config"

// ProjectConfigFileName is the name of the project configuration file (without extension).
const ProjectConfigFileName = "libtools"

// XDGPaths holds the resolved base directories for the current platform.
type XDGPaths struct {
	ConfigHome string
}

// ResolveXDGPaths honors XDG_CONFIG_HOME everywhere and falls back to the
// platform's usual location.
func ResolveXDGPaths() XDGPaths {
	return XDGPaths{ConfigHome: resolveConfigHome()}
}

// ConfigDir returns the libtools configuration directory.
func (p XDGPaths) ConfigDir() string {
	return filepath.Join(p.ConfigHome, AppName)
}

// ConfigFilePath returns the full path to the user configuration file.
func (p XDGPaths) ConfigFilePath() string {
	return filepath.Join(p.ConfigDir(), ConfigFileName+".yaml")
}

func resolveConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}

	home := userHomeDir()

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
		return filepath.Join(home, "AppData", "Roaming")
	}

	// macOS included: CLI tools conventionally use ~/.config there too
	return filepath.Join(home, ".config")
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return ""
}
