// Package startupconfig holds the optional one-shot bootstrap values read
// at process start: a relay URL and an nsec private key. The user writes
// the file by hand; the running process never mutates it.
package startupconfig

// Config mirrors startup_config.json. Absent fields stay nil.
type Config struct {
	Relay *string `json:"relay"`
	Nsec  *string `json:"nsec"`
}

func New() Config {
	return Config{}
}

func (c Config) WithRelay(relay string) Config {
	c.Relay = &relay
	return c
}

func (c Config) WithNsec(nsec string) Config {
	c.Nsec = &nsec
	return c
}

// IsConfigured reports whether the file carries anything to act on.
func (c Config) IsConfigured() bool {
	return c.Relay != nil || c.Nsec != nil
}
