// Package storage persists the app's state as pretty-printed JSON files in
// the settings directory. Loads never fail the caller: an absent or
// unparsable file means "use defaults". Saves log failures and move on; the
// in-memory state stays authoritative either way.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "chanstr"

// Settings file names, one file per concern.
const (
	ChannelsCacheFile = "channels_cache.json"
	RelayConfigFile   = "relay_config.json"
	StartupConfigFile = "startup_config.json"
)

// SettingsDir resolves the per-user settings directory. os.UserConfigDir
// picks the right base for Windows, macOS and Linux.
func SettingsDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName), nil
}

// writeFile writes via a temp file and rename, so a concurrent load never
// sees a half-written file.
func writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create settings directory: %w", err)
	}
	path := filepath.Join(dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("could not move %s into place: %w", name, err)
	}
	return nil
}

func readFile(dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, name))
}
