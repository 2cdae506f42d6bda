package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanstr/chanstr-tui/internal/accounts"
)

func TestNewCacheSeedsFallback(t *testing.T) {
	c := NewCache(nil, accounts.FallbackPubkey)

	l := c.Fallback()
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, DefaultChannelName, l.SelectedChannel().Name)
}

func TestNewCacheKeepsLoadedFallback(t *testing.T) {
	loaded := NewList()
	loaded.Add(New("Bitcoin", []string{"bitcoin"}))
	lists := map[accounts.Pubkey]*List{accounts.FallbackPubkey: loaded}

	c := NewCache(lists, accounts.FallbackPubkey)
	assert.Same(t, loaded, c.Fallback())
}

func TestForIdentityFallsBack(t *testing.T) {
	c := DefaultCache(accounts.FallbackPubkey)

	l := c.ForIdentity("deadbeef")
	assert.Same(t, c.Fallback(), l)
	assert.Nil(t, c.Mapping()["deadbeef"], "read access must not create entries")
}

func TestForIdentityMutSeedsDefaultList(t *testing.T) {
	c := DefaultCache(accounts.FallbackPubkey)

	l := c.ForIdentityMut("deadbeef")
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Len())
	assert.Same(t, l, c.ForIdentity("deadbeef"))
}

func TestAddChannelCreatesListOnFirstUse(t *testing.T) {
	c := DefaultCache(accounts.FallbackPubkey)

	c.AddChannel("deadbeef", New("Bitcoin", []string{"bitcoin"}))

	l := c.ForIdentity("deadbeef")
	assert.Equal(t, 2, l.Len(), "the seeded General plus the added channel")
	assert.Equal(t, "Bitcoin", l.SelectedChannel().Name)
}

func TestRemoveReseedsFallback(t *testing.T) {
	_, cache, store, _, pool := newTimelineFixture(t)

	c := DefaultCache(accounts.FallbackPubkey)
	c.Fallback().Add(New("Bitcoin", []string{"bitcoin"}))

	c.Remove(accounts.FallbackPubkey, cache, store, pool)

	l := c.Fallback()
	require.NotNil(t, l)
	assert.Equal(t, 1, l.Len(), "removing the fallback entry re-seeds a default list")
	assert.Equal(t, DefaultChannelName, l.SelectedChannel().Name)
}

func TestRemoveClosesTimelines(t *testing.T) {
	subs, cache, store, notes, pool := newTimelineFixture(t)

	c := DefaultCache(accounts.FallbackPubkey)
	l := c.ForIdentityMut("deadbeef")
	l.Add(New("Bitcoin", []string{"bitcoin"}))
	l.SubscribeAll(subs, cache, store, notes, pool)
	require.Equal(t, 2, cache.Len())

	c.Remove("deadbeef", cache, store, pool)
	assert.Zero(t, cache.Len())
	assert.Len(t, pool.unsubscribed, 2)
	assert.NotNil(t, c.Fallback())
}

func TestRemoveUnknownIdentityIsNoop(t *testing.T) {
	_, cache, store, _, pool := newTimelineFixture(t)

	c := DefaultCache(accounts.FallbackPubkey)
	c.Remove("deadbeef", cache, store, pool)
	assert.Empty(t, pool.unsubscribed)
}

func TestFallbackPanicsWhenEntryMissing(t *testing.T) {
	// Only reachable by corrupting the cache from outside the constructor.
	c := DefaultCache(accounts.FallbackPubkey)
	delete(c.Mapping(), accounts.FallbackPubkey)

	assert.Panics(t, func() { c.Fallback() })
}
