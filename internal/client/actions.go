package client

import (
	"fmt"
	"log"

	"github.com/chanstr/chanstr-tui/internal/accounts"
	"github.com/chanstr/chanstr-tui/internal/channels"
)

// handleAction dispatches user actions to their respective handlers.
func (c *Client) handleAction(action UserAction) {
	switch action.Type {
	case "SELECT_CHANNEL":
		if idx, ok := action.Payload.(int); ok {
			c.selectChannel(idx)
		}
	case "ADD_CHANNEL":
		if form, ok := action.Payload.(ChannelForm); ok {
			c.addChannel(form)
		}
	case "EDIT_CHANNEL":
		if form, ok := action.Payload.(ChannelForm); ok {
			c.editChannel(form)
		}
	case "REMOVE_CHANNEL":
		if idx, ok := action.Payload.(int); ok {
			c.removeChannel(idx)
		}
	case "ADD_RELAY":
		if url, ok := action.Payload.(string); ok {
			c.addRelay(url)
		}
	case "REMOVE_RELAY":
		if url, ok := action.Payload.(string); ok {
			c.removeRelay(url)
		}
	case "ADD_ACCOUNT_NSEC":
		if nsec, ok := action.Payload.(string); ok {
			c.addAccount(nsec)
		}
	case "SELECT_ACCOUNT":
		if pubkey, ok := action.Payload.(string); ok {
			c.selectAccount(accounts.Pubkey(pubkey))
		}
	case "REMOVE_ACCOUNT":
		if pubkey, ok := action.Payload.(string); ok {
			c.removeAccount(accounts.Pubkey(pubkey))
		}
	case "OPEN_THREAD":
		if id, ok := action.Payload.(string); ok {
			c.openThread(id)
		}
	case "CLOSE_THREAD":
		c.closeThread()
	}
}

func (c *Client) selectChannel(index int) {
	list := c.activeList()
	list.Select(index)
	if ch := list.SelectedChannel(); ch != nil {
		ch.Unread = 0
	}
	c.saveChannels()
	c.sendStateUpdate()
	c.sendMessagesUpdate()
}

func (c *Client) addChannel(form ChannelForm) {
	name, hashtags, err := validateChannelForm(form)
	if err != nil {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: err.Error()}
		return
	}

	c.channels.AddChannel(c.accounts.Selected().Pubkey, channels.New(name, hashtags))
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.saveChannels()
	c.sendStateUpdate()
	c.sendMessagesUpdate()
	c.eventsChan <- DisplayEvent{Type: "STATUS", Content: fmt.Sprintf("Created channel %q.", name)}
}

func (c *Client) editChannel(form ChannelForm) {
	name, hashtags, err := validateChannelForm(form)
	if err != nil {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: err.Error()}
		return
	}

	list := c.activeList()
	if !list.Edit(form.Index, name, hashtags, c.timelines, c.store, c.pool) {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: "No such channel to edit."}
		return
	}
	list.SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.saveChannels()
	c.sendStateUpdate()
	c.sendMessagesUpdate()
	c.eventsChan <- DisplayEvent{Type: "STATUS", Content: fmt.Sprintf("Updated channel %q.", name)}
}

func (c *Client) removeChannel(index int) {
	list := c.activeList()
	removed, ok := list.Remove(index, c.timelines, c.store, c.pool)
	if !ok {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: "Cannot remove: the last channel stays."}
		return
	}
	c.saveChannels()
	c.sendStateUpdate()
	c.sendMessagesUpdate()
	c.eventsChan <- DisplayEvent{Type: "STATUS", Content: fmt.Sprintf("Removed channel %q.", removed.Name)}
}

func (c *Client) addRelay(raw string) {
	url, err := normalizeRelayURL(raw)
	if err != nil {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: err.Error()}
		return
	}
	if !c.relayCfg.Add(url) {
		c.eventsChan <- DisplayEvent{Type: "STATUS", Content: fmt.Sprintf("Relay %s is already configured.", url)}
		return
	}
	c.saveRelayConfig()
	c.pool.SetRelays(c.relayCfg.URLs())
	c.sendStateUpdate()
}

func (c *Client) removeRelay(url string) {
	if !c.relayCfg.Remove(url) {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: fmt.Sprintf("Relay %s is not configured.", url)}
		return
	}
	c.saveRelayConfig()
	c.pool.SetRelays(c.relayCfg.URLs())
	c.sendStateUpdate()
}

func (c *Client) addAccount(nsec string) {
	pk, err := c.accounts.AddFromNsec(nsec)
	if err != nil {
		c.eventsChan <- DisplayEvent{Type: "ERROR", Content: err.Error()}
		return
	}
	c.switchIdentity()
	c.eventsChan <- DisplayEvent{Type: "STATUS", Content: fmt.Sprintf("Account %s selected.", shortKey(string(pk)))}
}

func (c *Client) selectAccount(pubkey accounts.Pubkey) {
	c.accounts.Select(pubkey)
	c.switchIdentity()
}

// removeAccount drops the identity and its channel entry; the channel cache
// unsubscribes everything first and re-seeds the fallback if needed.
func (c *Client) removeAccount(pubkey accounts.Pubkey) {
	c.channels.Remove(pubkey, c.timelines, c.store, c.pool)
	c.accounts.Remove(pubkey)
	c.switchIdentity()
	c.saveChannels()
}

// switchIdentity re-opens subscriptions for the newly active identity's
// channels. Timelines of the previous identity stay open; the cache dedups
// shared hashtag filters.
func (c *Client) switchIdentity() {
	c.activeList().SubscribeAll(c.subs, c.timelines, c.store, c.noteCache, c.pool)
	c.sendStateUpdate()
	c.sendMessagesUpdate()
}

func (c *Client) openThread(rootID string) {
	ch := c.activeList().SelectedChannel()
	if ch == nil {
		return
	}

	txn, err := c.store.Begin()
	if err != nil {
		log.Printf("Failed to create transaction for thread view: %v", err)
		return
	}
	notes := txn.Thread(rootID)
	txn.Done()

	msgs := make([]Message, 0, len(notes))
	for _, n := range notes {
		msgs = append(msgs, toMessage(n))
	}
	if len(msgs) == 0 {
		if n, ok := c.noteCache.Get(rootID); ok {
			msgs = append(msgs, toMessage(n))
		}
	}

	ch.Router.Push(channels.ThreadRoute(rootID))
	c.eventsChan <- DisplayEvent{Type: "THREAD", Payload: ThreadUpdate{RootID: rootID, Messages: msgs}}
}

func (c *Client) closeThread() {
	if ch := c.activeList().SelectedChannel(); ch != nil {
		ch.Router.Pop()
	}
	c.eventsChan <- DisplayEvent{Type: "THREAD_CLOSED"}
}
