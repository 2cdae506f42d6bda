// Package client is the application loop. It owns the channel model, the
// relay config, the account registry and the timeline cache; the TUI talks
// to it exclusively through UserAction/DisplayEvent channels, so every
// mutation runs synchronously on this loop.
package client

import (
	"context"
	"log"
	"time"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/channels"
	"github.com/chanstr/chanstr-tui/internal/relayconfig"
	"github.com/chanstr/chanstr-tui/internal/storage"
	"github.com/chanstr/chanstr-tui/internal/timeline"
)

type Client struct {
	settingsDir string

	accounts  *accounts.Accounts
	channels  *channels.Cache
	relayCfg  *relayconfig.Config
	store     *timeline.Store
	noteCache *timeline.NoteCache
	timelines *timeline.Cache
	subs      *timeline.Subscriptions
	pool      RelayPool

	actionsChan <-chan UserAction
	eventsChan  chan<- DisplayEvent
	notesChan   chan incomingNote

	ctx    context.Context
	cancel context.CancelFunc
}

// New loads persisted state and builds the client. The startup config is
// applied exactly once here: its relay joins the relay set, its nsec
// becomes the selected account.
func New(actions <-chan UserAction, events chan<- DisplayEvent, pool RelayPool) (*Client, error) {
	settingsDir, err := storage.SettingsDir()
	if err != nil {
		return nil, err
	}
	return newWithDir(settingsDir, actions, events, pool)
}

func newWithDir(settingsDir string, actions <-chan UserAction, events chan<- DisplayEvent, pool RelayPool) (*Client, error) {
	noteCache, err := timeline.NewNoteCache()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		settingsDir: settingsDir,
		accounts:    accounts.New(accounts.FallbackPubkey, accounts.OpenKeyStore()),
		store:       timeline.NewStore(),
		noteCache:   noteCache,
		timelines:   timeline.NewCache(),
		subs:        timeline.NewSubscriptions(),
		pool:        pool,
		actionsChan: actions,
		eventsChan:  events,
		notesChan:   make(chan incomingNote, 256),
		ctx:         ctx,
		cancel:      cancel,
	}

	if cfg, ok := storage.LoadRelayConfig(settingsDir); ok {
		c.relayCfg = cfg
	} else {
		c.relayCfg = relayconfig.DefaultRelays()
	}

	if startup, ok := storage.LoadStartupConfig(settingsDir); ok && startup.IsConfigured() {
		if startup.Relay != nil {
			c.relayCfg.Add(*startup.Relay)
		}
		if startup.Nsec != nil {
			if pk, err := c.accounts.AddFromNsec(*startup.Nsec); err != nil {
				log.Printf("Could not apply startup nsec: %v", err)
			} else {
				log.Printf("Startup account selected: %s", shortKey(string(pk)))
			}
		}
	}

	if cache, ok := storage.LoadChannels(settingsDir, c.accounts.Fallback()); ok {
		c.channels = cache
	} else {
		c.channels = channels.DefaultCache(c.accounts.Fallback())
	}

	pool.SetNoteHandler(func(kind timeline.Kind, n timeline.Note) {
		select {
		case c.notesChan <- incomingNote{kind: kind, note: n}:
		case <-c.ctx.Done():
		}
	})

	return c, nil
}

// Run is the main loop. It connects relays, opens the active identity's
// subscriptions, then serves actions and incoming notes until QUIT.
func (c *Client) Run() {
	c.pool.SetRelays(c.relayCfg.URLs())
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.sendStateUpdate()
	c.sendMessagesUpdate()

	for {
		select {
		case action, ok := <-c.actionsChan:
			if !ok {
				c.shutdown()
				return
			}
			if action.Type == "QUIT" {
				c.shutdown()
				return
			}
			c.handleAction(action)
		case in := <-c.notesChan:
			c.handleNote(in.kind, in.note)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) activeList() *channels.List {
	return c.channels.ActiveMut(c.accounts)
}

// handleNote stores a live note and routes it to the display: a NEW_MESSAGE
// when it belongs to the selected channel, an unread bump otherwise.
func (c *Client) handleNote(kind timeline.Kind, n timeline.Note) {
	txn, err := c.store.Begin()
	if err != nil {
		log.Printf("Failed to create transaction for incoming note: %v", err)
		return
	}
	txn.Insert(kind, n)
	txn.Done()

	if !c.timelines.Insert(kind, n, c.noteCache) {
		return
	}

	list := c.activeList()
	selected := list.SelectedChannel()
	bumped := false
	for i := range list.Channels {
		ch := &list.Channels[i]
		if ch.Kind != kind {
			continue
		}
		if selected != nil && ch.ID == selected.ID {
			c.eventsChan <- DisplayEvent{Type: "NEW_MESSAGE", Payload: toMessage(n)}
		} else {
			ch.Unread++
			bumped = true
		}
	}
	if bumped {
		c.sendStateUpdate()
	}
}

func (c *Client) shutdown() {
	c.cancel()
	c.pool.Close()
	c.store.Close()
	select {
	case c.eventsChan <- DisplayEvent{Type: "SHUTDOWN"}:
	case <-time.After(200 * time.Millisecond):
	}
}

// sendStateUpdate pushes the full model snapshot to the TUI.
func (c *Client) sendStateUpdate() {
	list := c.activeList()

	infos := make([]ChannelInfo, 0, list.Len())
	for i := range list.Channels {
		ch := &list.Channels[i]
		infos = append(infos, ChannelInfo{
			Name:     ch.Name,
			Hashtags: ch.Hashtags,
			Unread:   ch.Unread,
		})
	}

	accts := c.accounts.All()
	acctKeys := make([]string, 0, len(accts))
	for _, acct := range accts {
		acctKeys = append(acctKeys, string(acct.Pubkey))
	}

	c.eventsChan <- DisplayEvent{Type: "STATE_UPDATE", Payload: StateUpdate{
		Channels: infos,
		Selected: list.Selected,
		Identity: string(c.accounts.Selected().Pubkey),
		Accounts: acctKeys,
		Relays:   c.relayCfg.URLs(),
		Pool:     c.pool.Relays(),
	}}
}

// sendMessagesUpdate replaces the chat view with the selected channel's
// timeline.
func (c *Client) sendMessagesUpdate() {
	ch := c.activeList().SelectedChannel()
	if ch == nil {
		return
	}

	var msgs []Message
	if tl := c.timelines.Get(ch.Kind); tl != nil {
		notes := tl.Notes()
		msgs = make([]Message, 0, len(notes))
		for _, n := range notes {
			msgs = append(msgs, toMessage(n))
		}
	}
	c.eventsChan <- DisplayEvent{Type: "MESSAGES", Payload: MessagesUpdate{
		Channel:  ch.Name,
		Messages: msgs,
	}}
}

func (c *Client) saveChannels() {
	storage.SaveChannels(c.settingsDir, c.channels)
}

func (c *Client) saveRelayConfig() {
	storage.SaveRelayConfig(c.settingsDir, c.relayCfg)
}
