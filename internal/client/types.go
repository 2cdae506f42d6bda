package client

import (
	"time"

	"github.com/chanstr/chanstr-tui/internal/timeline"
)

// MaxMsgLen caps message content as rendered.
const MaxMsgLen = 2000

// UserAction is an intent emitted by the TUI. Payload carries the typed
// argument for the action, when one is needed.
type UserAction struct {
	Type    string
	Payload any
}

// ChannelForm is the payload of ADD_CHANNEL and EDIT_CHANNEL. Index is the
// channel being edited, -1 for a new channel.
type ChannelForm struct {
	Index    int
	Name     string
	Hashtags []string
}

// DisplayEvent is pushed from the client to the TUI.
type DisplayEvent struct {
	Type    string
	Content string
	Payload any
}

// Message is one chat message ready for display.
type Message struct {
	ID        string
	Author    string
	ShortKey  string
	Content   string
	CreatedAt time.Time
	Root      string
}

// ChannelInfo describes one channel for the sidebar and switcher.
type ChannelInfo struct {
	Name     string
	Hashtags []string
	Unread   int
}

// StateUpdate is the full model snapshot pushed after every mutation.
type StateUpdate struct {
	Channels []ChannelInfo
	Selected int
	Identity string
	Accounts []string
	Relays   []string
	Pool     []timeline.RelayInfo
}

// MessagesUpdate replaces the chat view's contents, e.g. after switching
// channels.
type MessagesUpdate struct {
	Channel  string
	Messages []Message
}

// ThreadUpdate fills the thread side panel.
type ThreadUpdate struct {
	RootID   string
	Messages []Message
}

// RelayPool is the slice of the relay pool the client drives. Satisfied by
// *timeline.Pool; tests use a recorder.
type RelayPool interface {
	timeline.Subscriber
	SetRelays(urls []string)
	SetNoteHandler(fn timeline.NoteHandler)
	Relays() []timeline.RelayInfo
	Close()
}

type incomingNote struct {
	kind timeline.Kind
	note timeline.Note
}
