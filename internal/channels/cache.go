package channels

import (
	"log"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/timeline"
)

// Cache maps identities to their channel lists. The fallback identity's
// entry always exists, so a list is always resolvable even with no real
// account selected.
type Cache struct {
	lists    map[accounts.Pubkey]*List
	fallback accounts.Pubkey
}

// NewCache takes ownership of lists and guarantees the fallback entry. A
// nil map is fine.
func NewCache(lists map[accounts.Pubkey]*List, fallback accounts.Pubkey) *Cache {
	if lists == nil {
		lists = make(map[accounts.Pubkey]*List)
	}
	if _, ok := lists[fallback]; !ok {
		lists[fallback] = DefaultList()
	}
	return &Cache{lists: lists, fallback: fallback}
}

// DefaultCache is the construction used when nothing was loaded from disk:
// just the fallback identity with its default list.
func DefaultCache(fallback accounts.Pubkey) *Cache {
	return NewCache(nil, fallback)
}

// ForIdentity returns the identity's list, or the fallback list when none
// exists. Read-only access never creates entries.
func (c *Cache) ForIdentity(key accounts.Pubkey) *List {
	if l, ok := c.lists[key]; ok {
		return l
	}
	return c.Fallback()
}

// ForIdentityMut returns the identity's list, creating a default-seeded one
// on first access. The result always has at least one channel.
func (c *Cache) ForIdentityMut(key accounts.Pubkey) *List {
	if l, ok := c.lists[key]; ok {
		return l
	}
	l := DefaultList()
	c.lists[key] = l
	return l
}

// Active resolves the selected account's list.
func (c *Cache) Active(accts *accounts.Accounts) *List {
	return c.ForIdentity(accts.Selected().Pubkey)
}

func (c *Cache) ActiveMut(accts *accounts.Accounts) *List {
	return c.ForIdentityMut(accts.Selected().Pubkey)
}

// SelectedChannel resolves the selected channel of the active list, nil
// when the list is somehow empty.
func (c *Cache) SelectedChannel(accts *accounts.Accounts) *Channel {
	return c.Active(accts).SelectedChannel()
}

// Fallback returns the guaranteed entry. Its absence is a constructor bug,
// not a runtime condition, so it panics rather than recovers.
func (c *Cache) Fallback() *List {
	l, ok := c.lists[c.fallback]
	if !ok {
		panic("fallback channel list not found - this is a bug in channels.Cache initialization")
	}
	return l
}

// AddChannel appends a channel to an identity's list, creating the list on
// first use.
func (c *Cache) AddChannel(key accounts.Pubkey, ch Channel) {
	name := ch.Name
	c.ForIdentityMut(key).Add(ch)
	log.Printf("Added channel %q for %s", name, key)
}

// Remove drops an identity's entry after closing all of its timelines. If
// the removed entry was the fallback, a fresh default entry is re-created
// immediately so the fallback invariant holds.
func (c *Cache) Remove(key accounts.Pubkey, cache *timeline.Cache, store *timeline.Store, pool timeline.Subscriber) {
	l, ok := c.lists[key]
	if !ok {
		return
	}
	log.Printf("Removing channels for %s", key)
	delete(c.lists, key)

	l.UnsubscribeAll(cache, store, pool)

	if _, ok := c.lists[c.fallback]; !ok {
		c.lists[c.fallback] = DefaultList()
	}
}

func (c *Cache) FallbackPubkey() accounts.Pubkey {
	return c.fallback
}

// Mapping exposes the identity-to-list map for persistence.
func (c *Cache) Mapping() map[accounts.Pubkey]*List {
	return c.lists
}
