package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/chanstr/chanstr-tui/internal/client"
)

// setupHandlers wires the global key handling.
func (t *tui) setupHandlers() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		front, _ := t.pages.GetFrontPage()
		if front != pageMain {
			// Modal pages handle their own keys; Esc always closes.
			if event.Key() == tcell.KeyEscape {
				t.pages.SwitchToPage(pageMain)
				t.app.SetFocus(t.sidebar)
				return nil
			}
			return event
		}

		if event.Key() == tcell.KeyCtrlC {
			t.actionsChan <- client.UserAction{Type: "QUIT"}
			return nil
		}

		if event.Key() == tcell.KeyCtrlK {
			t.openSwitcher()
			return nil
		}

		currentFocus := t.app.GetFocus()

		if currentFocus == t.search {
			switch event.Key() {
			case tcell.KeyEnter, tcell.KeyEscape:
				if event.Key() == tcell.KeyEscape {
					t.search.SetText("")
				}
				t.app.SetFocus(t.sidebar)
				return nil
			}
			return event
		}

		if event.Key() == tcell.KeyEscape {
			if t.threadOpen {
				t.actionsChan <- client.UserAction{Type: "CLOSE_THREAD"}
				return nil
			}
			if t.search.GetText() != "" {
				t.search.SetText("")
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyTab:
			t.cycleFocus(true)
			return nil
		case tcell.KeyBacktab:
			t.cycleFocus(false)
			return nil
		}

		if event.Key() == tcell.KeyRune && event.Rune() == '/' {
			t.app.SetFocus(t.search)
			return nil
		}

		if currentFocus == t.sidebar {
			return t.handleSidebarKeys(event)
		}
		if currentFocus == t.chat {
			return t.handleChatKeys(event)
		}
		return event
	})
}

func (t *tui) cycleFocus(forward bool) {
	order := []interface{ HasFocus() bool }{t.sidebar, t.chat}
	focusables := []func(){
		func() { t.app.SetFocus(t.sidebar) },
		func() { t.app.SetFocus(t.chat) },
	}
	for i, p := range order {
		if p.HasFocus() {
			var next int
			if forward {
				next = (i + 1) % len(order)
			} else {
				next = (i - 1 + len(order)) % len(order)
			}
			focusables[next]()
			return
		}
	}
	t.app.SetFocus(t.sidebar)
}

// selectedChannelIndex maps the sidebar cursor back to the unfiltered
// channel index.
func (t *tui) selectedChannelIndex() (int, bool) {
	cur := t.sidebar.GetCurrentItem()
	if cur < 0 || cur >= len(t.visible) {
		return 0, false
	}
	return t.visible[cur], true
}

func (t *tui) handleSidebarKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyHome, tcell.KeyEnd, tcell.KeyPgUp, tcell.KeyPgDn:
		return event
	case tcell.KeyEnter:
		if idx, ok := t.selectedChannelIndex(); ok {
			t.actionsChan <- client.UserAction{Type: "SELECT_CHANNEL", Payload: idx}
		}
		return nil
	case tcell.KeyDelete:
		if idx, ok := t.selectedChannelIndex(); ok {
			t.actionsChan <- client.UserAction{Type: "REMOVE_CHANNEL", Payload: idx}
		}
		return nil
	}

	if event.Key() == tcell.KeyRune {
		switch event.Rune() {
		case 'a':
			t.openChannelDialog(-1)
			return nil
		case 'e':
			if idx, ok := t.selectedChannelIndex(); ok {
				t.openChannelDialog(idx)
			}
			return nil
		case 'd':
			if idx, ok := t.selectedChannelIndex(); ok {
				t.actionsChan <- client.UserAction{Type: "REMOVE_CHANNEL", Payload: idx}
			}
			return nil
		case 'r':
			t.openRelayDialog()
			return nil
		}
	}
	return event
}

func (t *tui) handleChatKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyHome, tcell.KeyEnd, tcell.KeyPgUp, tcell.KeyPgDn:
		return event
	case tcell.KeyEnter:
		cur := t.chat.GetCurrentItem()
		if cur < 0 || cur >= len(t.messages) {
			return nil
		}
		msg := t.messages[cur]
		rootID := msg.ID
		if msg.Root != "" {
			rootID = msg.Root
		}
		t.actionsChan <- client.UserAction{Type: "OPEN_THREAD", Payload: rootID}
		return nil
	}
	return event
}
