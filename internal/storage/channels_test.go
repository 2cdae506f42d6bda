package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/channels"
)

func TestChannelsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cache := channels.DefaultCache(accounts.FallbackPubkey)
	l := cache.Fallback()
	l.Add(channels.New("Bitcoin", []string{"bitcoin", "btc"}))
	l.Add(channels.New("Art", []string{"art"}))
	l.Select(1)

	other := cache.ForIdentityMut("deadbeef")
	other.Add(channels.New("Nostr", []string{"nostr"}))

	SaveChannels(dir, cache)

	loaded, ok := LoadChannels(dir, accounts.FallbackPubkey)
	require.True(t, ok)

	got := loaded.Fallback()
	require.Equal(t, 3, got.Len())
	assert.Equal(t, 1, got.Selected)
	for i := 0; i < l.Len(); i++ {
		assert.Equal(t, l.Get(i).ID, got.Get(i).ID)
		assert.Equal(t, l.Get(i).Name, got.Get(i).Name)
		assert.Equal(t, l.Get(i).Hashtags, got.Get(i).Hashtags)
		assert.Equal(t, l.Get(i).Kind, got.Get(i).Kind, "kind is re-derived from hashtags on load")
	}

	gotOther := loaded.ForIdentity("deadbeef")
	require.Equal(t, 2, gotOther.Len())
	assert.Equal(t, "Nostr", gotOther.Get(1).Name)
}

func TestLoadChannelsAbsentFile(t *testing.T) {
	_, ok := LoadChannels(t.TempDir(), accounts.FallbackPubkey)
	assert.False(t, ok, "callers fall back to a default cache with one General channel")
}

func TestLoadChannelsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChannelsCacheFile), []byte("{broken"), 0644))

	_, ok := LoadChannels(dir, accounts.FallbackPubkey)
	assert.False(t, ok)
}

func TestLoadChannelsRegeneratesInvalidID(t *testing.T) {
	dir := t.TempDir()
	raw := map[string]channelListJSON{
		string(accounts.FallbackPubkey): {
			Channels: []channelJSON{{ID: "not-a-uuid", Name: "General", Hashtags: []string{"general"}}},
			Selected: 0,
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChannelsCacheFile), data, 0644))

	loaded, ok := LoadChannels(dir, accounts.FallbackPubkey)
	require.True(t, ok)

	ch := loaded.Fallback().Get(0)
	require.NotNil(t, ch)
	assert.NotEqual(t, uuid.Nil, ch.ID, "an unparsable id is replaced with a fresh one")
	assert.Equal(t, "General", ch.Name)
}

func TestLoadChannelsSeedsMissingFallback(t *testing.T) {
	dir := t.TempDir()

	cache := channels.DefaultCache(accounts.FallbackPubkey)
	cache.ForIdentityMut("deadbeef").Add(channels.New("Nostr", []string{"nostr"}))
	delete(cache.Mapping(), accounts.FallbackPubkey)
	SaveChannels(dir, cache)

	loaded, ok := LoadChannels(dir, accounts.FallbackPubkey)
	require.True(t, ok)
	assert.NotPanics(t, func() { loaded.Fallback() })
	assert.Equal(t, 1, loaded.Fallback().Len())
}
