// Package relayconfig is the global relay set: which relays the app
// connects to. Not tied to any account.
package relayconfig

import (
	"encoding/json"
	"log"
	"sort"
)

// Config is a set of relay URLs with deterministic (sorted) iteration.
type Config struct {
	relays map[string]struct{}
}

func New() *Config {
	return &Config{relays: make(map[string]struct{})}
}

// DefaultRelays seeds the config with a few popular public relays.
func DefaultRelays() *Config {
	c := New()
	c.relays["wss://relay.damus.io"] = struct{}{}
	c.relays["wss://relay.nostr.band"] = struct{}{}
	c.relays["wss://nos.lol"] = struct{}{}
	return c
}

// Add inserts a URL and reports whether it was newly inserted. Adding an
// existing URL is a no-op.
func (c *Config) Add(url string) bool {
	if _, ok := c.relays[url]; ok {
		return false
	}
	c.relays[url] = struct{}{}
	log.Printf("Added relay: %s", url)
	return true
}

// Remove deletes a URL and reports whether it was present.
func (c *Config) Remove(url string) bool {
	if _, ok := c.relays[url]; !ok {
		return false
	}
	delete(c.relays, url)
	log.Printf("Removed relay: %s", url)
	return true
}

func (c *Config) Has(url string) bool {
	_, ok := c.relays[url]
	return ok
}

// URLs returns the relay set in sorted order.
func (c *Config) URLs() []string {
	out := make([]string, 0, len(c.relays))
	for url := range c.relays {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

func (c *Config) Len() int {
	return len(c.relays)
}

func (c *Config) IsEmpty() bool {
	return len(c.relays) == 0
}

type configJSON struct {
	Relays []string `json:"relays"`
}

func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configJSON{Relays: c.URLs()})
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.relays = make(map[string]struct{}, len(raw.Relays))
	for _, url := range raw.Relays {
		c.relays[url] = struct{}{}
	}
	return nil
}
