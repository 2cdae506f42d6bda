package timeline

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	seenCacheSize = 8192
	noteCacheSize = 4096
	backfillLimit = 500
)

// Subscriber is the slice of the relay pool the cache needs. *Pool satisfies
// it; tests substitute a recorder.
type Subscriber interface {
	Subscribe(Kind) error
	Unsubscribe(Kind) error
}

// Subscriptions maps open timeline kinds to their subscription ids.
type Subscriptions struct {
	subs map[Kind]string
}

func NewSubscriptions() *Subscriptions {
	return &Subscriptions{subs: make(map[Kind]string)}
}

func (s *Subscriptions) add(kind Kind) string {
	id := uuid.NewString()
	s.subs[kind] = id
	return id
}

func (s *Subscriptions) remove(kind Kind) {
	delete(s.subs, kind)
}

func (s *Subscriptions) Has(kind Kind) bool {
	_, ok := s.subs[kind]
	return ok
}

func (s *Subscriptions) Len() int {
	return len(s.subs)
}

// NoteCache keeps recently seen notes addressable by id across timelines,
// so the thread panel can resolve notes whose timeline is gone.
type NoteCache struct {
	notes *lru.Cache[string, Note]
}

func NewNoteCache() (*NoteCache, error) {
	notes, err := lru.New[string, Note](noteCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create note cache: %w", err)
	}
	return &NoteCache{notes: notes}, nil
}

func (nc *NoteCache) Add(n Note) {
	nc.notes.Add(n.ID, n)
}

func (nc *NoteCache) Get(id string) (Note, bool) {
	return nc.notes.Get(id)
}

// Timeline is one open subscription's view: its notes in created-at order
// plus an LRU dedup of event ids.
type Timeline struct {
	Kind  Kind
	SubID string

	notes []Note
	seen  *lru.Cache[string, struct{}]
}

func newTimeline(kind Kind, subID string) (*Timeline, error) {
	seen, err := lru.New[string, struct{}](seenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create seen cache: %w", err)
	}
	return &Timeline{Kind: kind, SubID: subID, seen: seen}, nil
}

// Insert appends a note unless its id was already seen. Returns whether the
// note was new.
func (t *Timeline) Insert(n Note) bool {
	if t.seen.Contains(n.ID) {
		return false
	}
	t.seen.Add(n.ID, struct{}{})
	t.notes = append(t.notes, n)
	return true
}

func (t *Timeline) Notes() []Note {
	return t.notes
}

func (t *Timeline) Len() int {
	return len(t.notes)
}

// Cache owns the open timelines, keyed by Kind. It is exclusively owned by
// the application loop; no locking here.
type Cache struct {
	timelines map[Kind]*Timeline
}

func NewCache() *Cache {
	return &Cache{timelines: make(map[Kind]*Timeline)}
}

func (c *Cache) Get(kind Kind) *Timeline {
	return c.timelines[kind]
}

// OpenResult carries the stored-note backfill of a freshly opened timeline.
type OpenResult struct {
	Kind     Kind
	backfill []Note
}

// Process merges the backfill into the timeline and records each note in
// the note cache.
func (r *OpenResult) Process(cache *Cache, notes *NoteCache) {
	tl := cache.Get(r.Kind)
	if tl == nil {
		return
	}
	for _, n := range r.backfill {
		if tl.Insert(n) {
			notes.Add(n)
		}
	}
}

// Open starts a timeline for kind: registers the subscription, asks the
// pool for a live feed and reads stored notes through txn. Returns nil when
// the kind is already open or the pool refused; the caller treats nil as
// "nothing to process".
func (c *Cache) Open(subs *Subscriptions, txn *Txn, notes *NoteCache, pool Subscriber, kind Kind) *OpenResult {
	if _, ok := c.timelines[kind]; ok {
		return nil
	}

	if err := pool.Subscribe(kind); err != nil {
		log.Printf("Failed to open subscription for %s: %v", kind, err)
		return nil
	}

	subID := subs.add(kind)
	tl, err := newTimeline(kind, subID)
	if err != nil {
		subs.remove(kind)
		_ = pool.Unsubscribe(kind)
		log.Printf("Failed to create timeline for %s: %v", kind, err)
		return nil
	}
	c.timelines[kind] = tl

	return &OpenResult{Kind: kind, backfill: txn.Query(kind, backfillLimit)}
}

// Pop closes the timeline for kind: drops the live subscription, the store
// index and the cache entry.
func (c *Cache) Pop(kind Kind, store *Store, pool Subscriber) error {
	if _, ok := c.timelines[kind]; !ok {
		return fmt.Errorf("no open timeline for %s", kind)
	}
	if err := pool.Unsubscribe(kind); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", kind, err)
	}
	store.Drop(kind)
	delete(c.timelines, kind)
	return nil
}

// Insert routes an incoming live note to its timeline, if open. Returns
// whether the note was new to the timeline.
func (c *Cache) Insert(kind Kind, n Note, notes *NoteCache) bool {
	tl, ok := c.timelines[kind]
	if !ok {
		return false
	}
	if !tl.Insert(n) {
		return false
	}
	notes.Add(n)
	return true
}

func (c *Cache) Len() int {
	return len(c.timelines)
}
