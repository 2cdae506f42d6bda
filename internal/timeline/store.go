package timeline

import (
	"errors"
	"sort"
	"sync"
)

// Note is the view of a nostr event kept by the note store. Root carries the
// thread root event id when the note is a reply.
type Note struct {
	ID        string
	Author    string
	Content   string
	CreatedAt int64
	Root      string
}

// ErrStoreClosed is returned when a transaction is requested after Close.
var ErrStoreClosed = errors.New("note store is closed")

// Store is the local note store backing timelines. Notes arrive from relay
// listeners and are read back through short-lived transactions.
type Store struct {
	mu     sync.Mutex
	closed bool
	notes  map[string]Note
	byKind map[Kind][]string
}

func NewStore() *Store {
	return &Store{
		notes:  make(map[string]Note),
		byKind: make(map[Kind][]string),
	}
}

// Txn is a read/write handle over the store. It holds the store lock for its
// lifetime, so it must be short-lived and finished with Done.
type Txn struct {
	store *Store
}

// Begin acquires a transaction. It fails only when the store has been
// closed; callers treat that as an abort of the whole batch they were about
// to run.
func (s *Store) Begin() (*Txn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	return &Txn{store: s}, nil
}

func (t *Txn) Done() {
	t.store.mu.Unlock()
}

// Insert records a note under the given kind. Duplicate ids are ignored per
// kind but the note body is refreshed.
func (t *Txn) Insert(kind Kind, n Note) {
	s := t.store
	if _, ok := s.notes[n.ID]; !ok {
		s.byKind[kind] = append(s.byKind[kind], n.ID)
	} else {
		found := false
		for _, id := range s.byKind[kind] {
			if id == n.ID {
				found = true
				break
			}
		}
		if !found {
			s.byKind[kind] = append(s.byKind[kind], n.ID)
		}
	}
	s.notes[n.ID] = n
}

// Query returns up to limit notes for a kind, oldest first. limit <= 0 means
// no limit.
func (t *Txn) Query(kind Kind, limit int) []Note {
	s := t.store
	ids := s.byKind[kind]
	out := make([]Note, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.notes[id]; ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Get looks a single note up by id.
func (t *Txn) Get(id string) (Note, bool) {
	n, ok := t.store.notes[id]
	return n, ok
}

// Thread returns the root note and all replies referencing it, oldest first.
func (t *Txn) Thread(rootID string) []Note {
	s := t.store
	out := make([]Note, 0, 8)
	if root, ok := s.notes[rootID]; ok {
		out = append(out, root)
	}
	for _, n := range s.notes {
		if n.Root == rootID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt == out[j].CreatedAt {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Drop forgets the per-kind index. Note bodies stay resident so threads and
// the note cache keep resolving.
func (s *Store) Drop(kind Kind) {
	s.mu.Lock()
	delete(s.byKind, kind)
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
