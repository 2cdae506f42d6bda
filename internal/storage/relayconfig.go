package storage

import (
	"encoding/json"
	"log"
	"os"

	"github.com/chanstr/chanstr-tui/internal/relayconfig"
)

// LoadRelayConfig reads relay_config.json. ok is false for an absent or
// unparsable file.
func LoadRelayConfig(dir string) (*relayconfig.Config, bool) {
	data, err := readFile(dir, RelayConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read relay config from file %s: %v", RelayConfigFile, err)
		}
		return nil, false
	}

	cfg := relayconfig.New()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Could not parse relay config %s: %v", RelayConfigFile, err)
		return nil, false
	}
	return cfg, true
}

func SaveRelayConfig(dir string, cfg *relayconfig.Config) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Printf("Could not serialize relay config: %v", err)
		return
	}
	if err := writeFile(dir, RelayConfigFile, data); err != nil {
		log.Printf("Could not write relay config to file %s: %v", RelayConfigFile, err)
	}
}
