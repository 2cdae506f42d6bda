package storage

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/channels"
)

// The on-disk channel mapping keys identities by hex pubkey, since raw
// binary keys are not valid JSON object keys.

type channelJSON struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Hashtags []string `json:"hashtags"`
}

type channelListJSON struct {
	Channels []channelJSON `json:"channels"`
	Selected int           `json:"selected"`
}

// LoadChannels reads channels_cache.json. ok is false when the file is
// absent or unparsable; the caller falls back to a default-constructed
// cache either way.
func LoadChannels(dir string, fallback accounts.Pubkey) (*channels.Cache, bool) {
	data, err := readFile(dir, ChannelsCacheFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read channels cache from file %s: %v", ChannelsCacheFile, err)
		}
		return nil, false
	}

	var raw map[string]channelListJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("Could not parse channels cache %s: %v", ChannelsCacheFile, err)
		return nil, false
	}

	lists := make(map[accounts.Pubkey]*channels.List, len(raw))
	for pubkey, rawList := range raw {
		list := channels.NewList()
		for _, rawCh := range rawList.Channels {
			id, err := uuid.Parse(rawCh.ID)
			if err != nil {
				id = uuid.New()
			}
			list.Channels = append(list.Channels, channels.WithID(id, rawCh.Name, rawCh.Hashtags))
		}
		list.Selected = rawList.Selected
		lists[accounts.Pubkey(pubkey)] = list
	}

	return channels.NewCache(lists, fallback), true
}

// SaveChannels writes the cache, preserving channel ordering and the
// per-identity selected index exactly.
func SaveChannels(dir string, cache *channels.Cache) {
	raw := make(map[string]channelListJSON, len(cache.Mapping()))
	for pubkey, list := range cache.Mapping() {
		rawList := channelListJSON{
			Channels: make([]channelJSON, 0, len(list.Channels)),
			Selected: list.Selected,
		}
		for i := range list.Channels {
			ch := &list.Channels[i]
			rawList.Channels = append(rawList.Channels, channelJSON{
				ID:       ch.ID.String(),
				Name:     ch.Name,
				Hashtags: ch.Hashtags,
			})
		}
		raw[string(pubkey)] = rawList
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		log.Printf("Could not serialize channels cache: %v", err)
		return
	}

	if err := writeFile(dir, ChannelsCacheFile, data); err != nil {
		log.Printf("Could not write channels cache to file %s: %v", ChannelsCacheFile, err)
	}
}
