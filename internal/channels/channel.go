// Package channels holds the channel model: a channel is a named hashtag
// filter bound to a timeline subscription, channels are grouped per
// identity, and the whole mapping persists as JSON.
package channels

import (
	"github.com/google/uuid"

	"github.com/chanstr/chanstr-tui/internal/timeline"
)

// Channel is a single chat channel. Kind is always derived from Hashtags;
// whether a subscription is live for it is the timeline cache's business,
// not tracked here.
type Channel struct {
	ID       uuid.UUID
	Name     string
	Hashtags []string
	Kind     timeline.Kind
	Router   *Router
	Unread   int
}

func New(name string, hashtags []string) Channel {
	return WithID(uuid.New(), name, hashtags)
}

func WithID(id uuid.UUID, name string, hashtags []string) Channel {
	kind := timeline.KindForHashtags(hashtags)
	return Channel{
		ID:       id,
		Name:     name,
		Hashtags: hashtags,
		Kind:     kind,
		Router:   NewRouter(TimelineRoute(kind)),
	}
}
