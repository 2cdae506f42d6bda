package relayconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	c := New()

	assert.True(t, c.Add("wss://relay.damus.io"))
	assert.False(t, c.Add("wss://relay.damus.io"))
	assert.Equal(t, 1, c.Len())
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add("wss://relay.damus.io")

	assert.True(t, c.Remove("wss://relay.damus.io"))
	assert.False(t, c.Remove("wss://relay.damus.io"))
	assert.True(t, c.IsEmpty())
}

func TestDefaultRelays(t *testing.T) {
	c := DefaultRelays()

	assert.Equal(t, []string{
		"wss://nos.lol",
		"wss://relay.damus.io",
		"wss://relay.nostr.band",
	}, c.URLs())
}

func TestURLsAreSorted(t *testing.T) {
	c := New()
	c.Add("wss://z.example.com")
	c.Add("wss://a.example.com")
	c.Add("wss://m.example.com")

	assert.Equal(t, []string{
		"wss://a.example.com",
		"wss://m.example.com",
		"wss://z.example.com",
	}, c.URLs())
}

func TestJSONRoundTrip(t *testing.T) {
	c := DefaultRelays()

	data, err := json.Marshal(c)
	require.NoError(t, err)

	loaded := New()
	require.NoError(t, json.Unmarshal(data, loaded))
	assert.Equal(t, c.URLs(), loaded.URLs())
}

func TestUnmarshalDeduplicates(t *testing.T) {
	loaded := New()
	err := json.Unmarshal([]byte(`{"relays":["wss://a","wss://a","wss://b"]}`), loaded)
	require.NoError(t, err)
	assert.Equal(t, []string{"wss://a", "wss://b"}, loaded.URLs())
}
