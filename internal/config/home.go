package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HomeDirName is the directory created under the user's home for config,
// logs and history.
const HomeDirName = ".licensesearch"

// ResolveHome returns the licensesearch home directory.
// Priority order:
//  1. The --home flag value (if set)
//  2. ~/.licensesearch
//
// The directory is not created here; writers create what they need.
func ResolveHome(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		userHome, _ := os.UserHomeDir()
		home, err := filepath.Abs(expandTilde(flagValue, userHome))
		if err != nil {
			return "", fmt.Errorf("resolve home directory %s: %w", flagValue, err)
		}
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate user home directory: %w", err)
	}
	return filepath.Join(userHome, HomeDirName), nil
}

// ExpandPath resolves a path from the config file: "~/" expands to the user's
// home directory and relative paths are taken relative to home.
func ExpandPath(path, home string) string {
	if path == "" {
		return ""
	}
	userHome, _ := os.UserHomeDir()
	path = expandTilde(path, userHome)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(home, path)
}

func expandTilde(path, userHome string) string {
	if userHome == "" {
		return path
	}
	if path == "~" {
		return userHome
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHome, path[2:])
	}
	return path
}
