package client

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/channels"
	"github.com/chanstr/chanstr-tui/internal/startupconfig"
	"github.com/chanstr/chanstr-tui/internal/storage"
	"github.com/chanstr/chanstr-tui/internal/timeline"
)

// fakeRelayPool records every call the client makes against the pool.
type fakeRelayPool struct {
	relays       []string
	subscribed   []timeline.Kind
	unsubscribed []timeline.Kind
	handler      timeline.NoteHandler
	closed       bool
}

func (f *fakeRelayPool) Subscribe(kind timeline.Kind) error {
	f.subscribed = append(f.subscribed, kind)
	return nil
}

func (f *fakeRelayPool) Unsubscribe(kind timeline.Kind) error {
	f.unsubscribed = append(f.unsubscribed, kind)
	return nil
}

func (f *fakeRelayPool) SetRelays(urls []string)                { f.relays = urls }
func (f *fakeRelayPool) SetNoteHandler(fn timeline.NoteHandler) { f.handler = fn }
func (f *fakeRelayPool) Relays() []timeline.RelayInfo           { return nil }
func (f *fakeRelayPool) Close()                                 { f.closed = true }

func startupConfigWithRelay(url string) startupconfig.Config {
	return startupconfig.New().WithRelay(url)
}

func channelNamed(name string) channels.Channel {
	return channels.New(name, []string{strings.ToLower(name)})
}

func freshNsec(t *testing.T) string {
	t.Helper()
	nsec, err := nip19.EncodePrivateKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	return nsec
}

func newTestClient(t *testing.T) (*Client, *fakeRelayPool, chan DisplayEvent) {
	t.Helper()
	actions := make(chan UserAction, 10)
	events := make(chan DisplayEvent, 64)
	pool := &fakeRelayPool{}

	c, err := newWithDir(t.TempDir(), actions, events, pool)
	require.NoError(t, err)
	return c, pool, events
}

// drainEvents empties the buffered event channel and returns the event types
// in order.
func drainEvents(events chan DisplayEvent) []DisplayEvent {
	var out []DisplayEvent
	for {
		select {
		case ev := <-events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventTypes(evs []DisplayEvent) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}

func TestNewClientSeedsDefaults(t *testing.T) {
	c, _, _ := newTestClient(t)

	assert.Equal(t, accounts.FallbackPubkey, c.accounts.Selected().Pubkey)
	assert.Equal(t, 3, c.relayCfg.Len(), "an empty settings dir yields the default relays")

	list := c.activeList()
	require.Equal(t, 1, list.Len())
	assert.Equal(t, "General", list.SelectedChannel().Name)
}

func TestStartupConfigAppliesRelay(t *testing.T) {
	dir := t.TempDir()
	storage.SaveStartupConfig(dir, startupConfigWithRelay("wss://my.relay.example"))

	actions := make(chan UserAction, 10)
	events := make(chan DisplayEvent, 64)
	c, err := newWithDir(dir, actions, events, &fakeRelayPool{})
	require.NoError(t, err)

	assert.True(t, c.relayCfg.Has("wss://my.relay.example"))
}

func TestAddChannelSubscribesAndPersists(t *testing.T) {
	c, pool, events := newTestClient(t)
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	drainEvents(events)

	c.handleAction(UserAction{Type: "ADD_CHANNEL", Payload: ChannelForm{
		Index:    -1,
		Name:     "Bitcoin",
		Hashtags: []string{"#Bitcoin"},
	}})

	list := c.activeList()
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "Bitcoin", list.SelectedChannel().Name)
	assert.Contains(t, pool.subscribed, timeline.KindForHashtags([]string{"bitcoin"}))

	evs := drainEvents(events)
	assert.Contains(t, eventTypes(evs), "STATUS")

	loaded, ok := storage.LoadChannels(c.settingsDir, accounts.FallbackPubkey)
	require.True(t, ok)
	assert.Equal(t, 2, loaded.Fallback().Len())
}

func TestAddChannelRejectsBadForm(t *testing.T) {
	c, _, events := newTestClient(t)

	c.handleAction(UserAction{Type: "ADD_CHANNEL", Payload: ChannelForm{Index: -1, Name: ""}})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "ERROR", evs[0].Type)
	assert.Equal(t, 1, c.activeList().Len())
}

func TestRemoveLastChannelIsRefused(t *testing.T) {
	c, _, events := newTestClient(t)

	c.handleAction(UserAction{Type: "REMOVE_CHANNEL", Payload: 0})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "ERROR", evs[0].Type)
	assert.Equal(t, 1, c.activeList().Len())
}

func TestSelectChannelResetsUnread(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().Add(channelNamed("Bitcoin"))
	c.activeList().Get(0).Unread = 7

	c.handleAction(UserAction{Type: "SELECT_CHANNEL", Payload: 0})
	drainEvents(events)

	assert.Equal(t, 0, c.activeList().Selected)
	assert.Zero(t, c.activeList().Get(0).Unread)
}

func TestAddRelayNormalizesAndReconnects(t *testing.T) {
	c, pool, events := newTestClient(t)

	c.handleAction(UserAction{Type: "ADD_RELAY", Payload: "My.Relay.Example"})
	drainEvents(events)

	assert.True(t, c.relayCfg.Has("wss://my.relay.example"))
	assert.Contains(t, pool.relays, "wss://my.relay.example")

	loaded, ok := storage.LoadRelayConfig(c.settingsDir)
	require.True(t, ok)
	assert.True(t, loaded.Has("wss://my.relay.example"))
}

func TestAddRelayDuplicateIsStatusOnly(t *testing.T) {
	c, pool, events := newTestClient(t)

	c.handleAction(UserAction{Type: "ADD_RELAY", Payload: "wss://relay.damus.io"})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "STATUS", evs[0].Type)
	assert.Empty(t, pool.relays, "no reconnect for a duplicate")
}

func TestRemoveUnknownRelay(t *testing.T) {
	c, _, events := newTestClient(t)

	c.handleAction(UserAction{Type: "REMOVE_RELAY", Payload: "wss://nope.example"})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "ERROR", evs[0].Type)
}

func TestHandleNoteRoutesToSelectedChannel(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	drainEvents(events)

	kind := c.activeList().SelectedChannel().Kind
	c.handleNote(kind, timeline.Note{ID: "n1", Author: "alice", Content: "hi", CreatedAt: 100})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "NEW_MESSAGE", evs[0].Type)
	assert.Zero(t, c.activeList().SelectedChannel().Unread)
}

func TestHandleNoteBumpsUnreadForBackgroundChannel(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().Add(channelNamed("Bitcoin"))
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.activeList().Select(1) // Bitcoin selected, General in background
	drainEvents(events)

	generalKind := c.activeList().Get(0).Kind
	c.handleNote(generalKind, timeline.Note{ID: "n1", Author: "alice", CreatedAt: 100})

	assert.Equal(t, 1, c.activeList().Get(0).Unread)
	evs := drainEvents(events)
	assert.Contains(t, eventTypes(evs), "STATE_UPDATE")
}

func TestHandleNoteDeduplicates(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	drainEvents(events)

	kind := c.activeList().SelectedChannel().Kind
	n := timeline.Note{ID: "n1", Author: "alice", CreatedAt: 100}
	c.handleNote(kind, n)
	c.handleNote(kind, n)

	evs := drainEvents(events)
	require.Len(t, evs, 1, "a duplicate note produces no second event")
}

func TestOpenThreadFromStore(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	drainEvents(events)

	kind := c.activeList().SelectedChannel().Kind
	c.handleNote(kind, timeline.Note{ID: "root", Author: "alice", CreatedAt: 100})
	c.handleNote(kind, timeline.Note{ID: "reply", Author: "bob", Root: "root", CreatedAt: 200})
	drainEvents(events)

	c.handleAction(UserAction{Type: "OPEN_THREAD", Payload: "root"})

	evs := drainEvents(events)
	require.Len(t, evs, 1)
	assert.Equal(t, "THREAD", evs[0].Type)
	upd, ok := evs[0].Payload.(ThreadUpdate)
	require.True(t, ok)
	assert.Equal(t, "root", upd.RootID)
	require.Len(t, upd.Messages, 2)
	assert.Equal(t, "root", upd.Messages[0].ID)

	assert.Equal(t, 2, c.activeList().SelectedChannel().Router.Depth())
}

func TestCloseThreadPopsRoute(t *testing.T) {
	c, _, events := newTestClient(t)
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.handleNote(c.activeList().SelectedChannel().Kind, timeline.Note{ID: "root", CreatedAt: 100})
	drainEvents(events)

	c.handleAction(UserAction{Type: "OPEN_THREAD", Payload: "root"})
	c.handleAction(UserAction{Type: "CLOSE_THREAD"})

	evs := drainEvents(events)
	assert.Equal(t, []string{"THREAD", "THREAD_CLOSED"}, eventTypes(evs))
	assert.Equal(t, 1, c.activeList().SelectedChannel().Router.Depth())
}

func TestRemoveAccountCleansUpChannels(t *testing.T) {
	c, _, events := newTestClient(t)

	nsec := freshNsec(t)
	c.handleAction(UserAction{Type: "ADD_ACCOUNT_NSEC", Payload: nsec})
	drainEvents(events)

	pubkey := c.accounts.Selected().Pubkey
	require.NotEqual(t, accounts.FallbackPubkey, pubkey)
	c.activeList().Add(channelNamed("Bitcoin"))

	c.handleAction(UserAction{Type: "REMOVE_ACCOUNT", Payload: string(pubkey)})
	drainEvents(events)

	assert.Equal(t, accounts.FallbackPubkey, c.accounts.Selected().Pubkey)
	assert.Nil(t, c.channels.Mapping()[pubkey])
	assert.NotPanics(t, func() { c.channels.Fallback() })
}
