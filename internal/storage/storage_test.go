package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanstr/chanstr-tui/internal/relayconfig"
	"github.com/chanstr/chanstr-tui/internal/startupconfig"
)

func TestWriteFileCreatesDirAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "settings")

	require.NoError(t, writeFile(dir, "x.json", []byte("{}")))

	data, err := readFile(dir, "x.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x.json", entries[0].Name())
}

func TestRelayConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := relayconfig.DefaultRelays()
	cfg.Add("wss://relay.example.com")

	SaveRelayConfig(dir, cfg)

	loaded, ok := LoadRelayConfig(dir)
	require.True(t, ok)
	assert.Equal(t, cfg.URLs(), loaded.URLs())
}

func TestLoadRelayConfigAbsentFile(t *testing.T) {
	_, ok := LoadRelayConfig(t.TempDir())
	assert.False(t, ok)
}

func TestLoadRelayConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, RelayConfigFile), []byte("{not json"), 0644))

	_, ok := LoadRelayConfig(dir)
	assert.False(t, ok, "a corrupt file must load as not-ok, never panic")
}

func TestStartupConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := startupconfig.New().WithRelay("wss://nos.lol").WithNsec("nsec1xyz")

	SaveStartupConfig(dir, cfg)

	loaded, ok := LoadStartupConfig(dir)
	require.True(t, ok)
	require.NotNil(t, loaded.Relay)
	assert.Equal(t, "wss://nos.lol", *loaded.Relay)
	require.NotNil(t, loaded.Nsec)
	assert.Equal(t, "nsec1xyz", *loaded.Nsec)
}

func TestLoadStartupConfigAbsentFile(t *testing.T) {
	cfg, ok := LoadStartupConfig(t.TempDir())
	assert.False(t, ok)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadStartupConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StartupConfigFile), []byte("[]"), 0644))

	_, ok := LoadStartupConfig(dir)
	assert.False(t, ok)
}
