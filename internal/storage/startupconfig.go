package storage

import (
	"encoding/json"
	"log"
	"os"

	"github.com/chanstr/chanstr-tui/internal/startupconfig"
)

// LoadStartupConfig reads the user-authored startup_config.json. A missing
// file is normal for first-time setup and is not logged as an error.
func LoadStartupConfig(dir string) (startupconfig.Config, bool) {
	data, err := readFile(dir, StartupConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read startup config from file %s: %v", StartupConfigFile, err)
		}
		return startupconfig.Config{}, false
	}

	var cfg startupconfig.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Could not parse startup config: %v", err)
		return startupconfig.Config{}, false
	}
	log.Printf("Loaded startup configuration from %s", StartupConfigFile)
	return cfg, true
}

// SaveStartupConfig re-serializes the startup config, mainly for reference;
// normal operation only reads it.
func SaveStartupConfig(dir string, cfg startupconfig.Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Printf("Could not serialize startup config: %v", err)
		return
	}
	if err := writeFile(dir, StartupConfigFile, data); err != nil {
		log.Printf("Could not write startup config to file %s: %v", StartupConfigFile, err)
	}
}
