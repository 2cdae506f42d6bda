package channels

import (
	"log"

	"github.com/chanstr/chanstr-tui/internal/timeline"
)

// DefaultChannelName seeds every fresh channel list.
const DefaultChannelName = "General"

// List holds all channels of one identity plus the selection. Invariant:
// Selected is a valid index whenever the list is non-empty, and a non-empty
// list never shrinks below one channel.
type List struct {
	Channels []Channel
	Selected int
}

func NewList() *List {
	return &List{}
}

// DefaultList seeds a list with the default "General" channel.
func DefaultList() *List {
	l := NewList()
	l.Add(New(DefaultChannelName, []string{"general"}))
	return l
}

// Add appends and selects the new channel.
func (l *List) Add(ch Channel) {
	l.Channels = append(l.Channels, ch)
	l.Selected = len(l.Channels) - 1
}

// Edit renames a channel and swaps its hashtag filter. When the filter
// actually changes, the old timeline is closed first; a failure there is
// logged and does not block the edit. Returns false on a bad index.
func (l *List) Edit(index int, name string, hashtags []string, cache *timeline.Cache, store *timeline.Store, pool timeline.Subscriber) bool {
	if index < 0 || index >= len(l.Channels) {
		return false
	}

	ch := &l.Channels[index]
	oldKind := ch.Kind
	newKind := timeline.KindForHashtags(hashtags)

	if oldKind != newKind {
		if err := cache.Pop(oldKind, store, pool); err != nil {
			log.Printf("Failed to unsubscribe from old channel timeline: %v", err)
		}
	}

	ch.Name = name
	ch.Hashtags = hashtags
	ch.Kind = newKind
	ch.Router = NewRouter(TimelineRoute(newKind))

	log.Printf("Updated channel: %s", ch.Name)
	return true
}

// Remove deletes a channel and closes its timeline. It refuses a bad index
// and refuses to empty the list. Selected is clamped to the last channel
// when it pointed past the end.
func (l *List) Remove(index int, cache *timeline.Cache, store *timeline.Store, pool timeline.Subscriber) (Channel, bool) {
	if index < 0 || index >= len(l.Channels) || len(l.Channels) <= 1 {
		return Channel{}, false
	}

	removed := l.Channels[index]
	l.Channels = append(l.Channels[:index], l.Channels[index+1:]...)

	if err := cache.Pop(removed.Kind, store, pool); err != nil {
		log.Printf("Failed to unsubscribe from channel timeline: %v", err)
	} else {
		log.Printf("Unsubscribed from removed channel: %s", removed.Name)
	}

	if l.Selected >= len(l.Channels) {
		l.Selected = len(l.Channels) - 1
	}
	return removed, true
}

// Select is a no-op when the index is out of bounds.
func (l *List) Select(index int) {
	if index >= 0 && index < len(l.Channels) {
		l.Selected = index
	}
}

func (l *List) SelectedChannel() *Channel {
	if l.Selected < 0 || l.Selected >= len(l.Channels) {
		return nil
	}
	return &l.Channels[l.Selected]
}

func (l *List) Get(index int) *Channel {
	if index < 0 || index >= len(l.Channels) {
		return nil
	}
	return &l.Channels[index]
}

func (l *List) Len() int {
	return len(l.Channels)
}

// SubscribeAll opens a timeline for every channel that does not already
// have one. A failed transaction aborts the whole batch: already-opened
// subscriptions stay open, at-least-once.
func (l *List) SubscribeAll(subs *timeline.Subscriptions, cache *timeline.Cache, store *timeline.Store, notes *timeline.NoteCache, pool timeline.Subscriber) {
	txn, err := store.Begin()
	if err != nil {
		log.Printf("Failed to create transaction for channel subscription: %v", err)
		return
	}
	defer txn.Done()

	for i := range l.Channels {
		ch := &l.Channels[i]
		if cache.Get(ch.Kind) != nil {
			continue
		}
		if result := cache.Open(subs, txn, notes, pool, ch.Kind); result != nil {
			result.Process(cache, notes)
			log.Printf("Subscribed to channel: %s", ch.Name)
		}
	}
}

// UnsubscribeAll closes every channel's timeline. A failure on one channel
// is logged and the rest are still processed.
func (l *List) UnsubscribeAll(cache *timeline.Cache, store *timeline.Store, pool timeline.Subscriber) {
	for i := range l.Channels {
		ch := &l.Channels[i]
		if err := cache.Pop(ch.Kind, store, pool); err != nil {
			log.Printf("Failed to unsubscribe from channel timeline: %v", err)
		} else {
			log.Printf("Unsubscribed from channel: %s", ch.Name)
		}
	}
}
