package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/chanstr/chanstr-tui/internal/client"
)

// modal centers a primitive at a fixed size over the main page.
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func (t *tui) closeDialog() {
	t.pages.SwitchToPage(pageMain)
	t.app.SetFocus(t.sidebar)
}

// openChannelDialog shows the create/edit form. editIndex is the channel
// being edited, -1 for a new channel.
func (t *tui) openChannelDialog(editIndex int) {
	title := " Create Channel "
	name := ""
	hashtags := ""
	if editIndex >= 0 && editIndex < len(t.state.Channels) {
		title = " Edit Channel "
		ch := t.state.Channels[editIndex]
		name = ch.Name
		hashtags = strings.Join(ch.Hashtags, ", ")
	} else {
		editIndex = -1
	}

	form := tview.NewForm().
		AddInputField("Name", name, 30, nil, nil).
		AddInputField("Hashtags (comma-separated)", hashtags, 30, nil, nil)
	form.SetBorder(true).SetTitle(title).SetTitleAlign(tview.AlignLeft)

	submit := func() {
		nameField := form.GetFormItemByLabel("Name").(*tview.InputField)
		tagsField := form.GetFormItemByLabel("Hashtags (comma-separated)").(*tview.InputField)
		payload := client.ChannelForm{
			Index:    editIndex,
			Name:     nameField.GetText(),
			Hashtags: splitHashtags(tagsField.GetText()),
		}
		actionType := "ADD_CHANNEL"
		if editIndex >= 0 {
			actionType = "EDIT_CHANNEL"
		}
		t.actionsChan <- client.UserAction{Type: actionType, Payload: payload}
		t.closeDialog()
	}

	form.AddButton("Save", submit)
	if editIndex >= 0 {
		form.AddButton("Delete", func() {
			t.actionsChan <- client.UserAction{Type: "REMOVE_CHANNEL", Payload: editIndex}
			t.closeDialog()
		})
	}
	form.AddButton("Cancel", t.closeDialog)
	form.SetCancelFunc(t.closeDialog)

	t.pages.AddPage(pageChannelDialog, modal(form, 50, 11), true, true)
	t.app.SetFocus(form)
}

func splitHashtags(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openRelayDialog shows the paginated relay manager.
func (t *tui) openRelayDialog() {
	list := tview.NewList().ShowSecondaryText(false)
	input := tview.NewInputField().SetLabel("Add relay: ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(list, 0, 1, true).
		AddItem(input, 1, 0, false)
	flex.SetBorder(true).SetTitleAlign(tview.AlignLeft)

	render := func() {
		total := len(t.state.Relays)
		page, start, end := pageBounds(total, relaysPerPage, t.relayPage)
		t.relayPage = page

		list.Clear()
		for _, url := range t.state.Relays[start:end] {
			list.AddItem(url, "", 0, nil)
		}
		pages := 1
		if total > 0 {
			pages = (total + relaysPerPage - 1) / relaysPerPage
		}
		flex.SetTitle(fmt.Sprintf(" Relays %d/%d — n/p page, d remove ", page+1, pages))
	}
	render()

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		if url := strings.TrimSpace(input.GetText()); url != "" {
			t.actionsChan <- client.UserAction{Type: "ADD_RELAY", Payload: url}
		}
		input.SetText("")
		t.app.SetFocus(list)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'n':
				t.relayPage++
				render()
				return nil
			case 'p':
				t.relayPage--
				render()
				return nil
			case 'd':
				_, start, end := pageBounds(len(t.state.Relays), relaysPerPage, t.relayPage)
				cur := list.GetCurrentItem()
				if cur >= 0 && start+cur < end {
					t.actionsChan <- client.UserAction{Type: "REMOVE_RELAY", Payload: t.state.Relays[start+cur]}
				}
				return nil
			case 'a':
				t.app.SetFocus(input)
				return nil
			}
		}
		return event
	})

	t.pages.AddPage(pageRelayDialog, modal(flex, 60, 14), true, true)
	t.app.SetFocus(list)
}

// openSwitcher shows the quick switcher: type to filter, arrows to move,
// Enter to jump.
func (t *tui) openSwitcher() {
	input := tview.NewInputField().SetLabel("> ")
	list := tview.NewList().ShowSecondaryText(false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(list, 0, 1, false)
	flex.SetBorder(true).SetTitle(" Jump to Channel ").SetTitleAlign(tview.AlignLeft)

	var matches []int
	render := func() {
		matches = filterChannels(t.state.Channels, input.GetText())
		list.Clear()
		for _, idx := range matches {
			ch := t.state.Channels[idx]
			label := "# " + ch.Name
			if idx == t.state.Selected {
				label += " [::d](current)[-:-:-]"
			}
			list.AddItem(label, "", 0, nil)
		}
	}
	render()

	input.SetChangedFunc(func(string) { render() })
	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyDown:
			if cur := list.GetCurrentItem(); cur < list.GetItemCount()-1 {
				list.SetCurrentItem(cur + 1)
			}
			return nil
		case tcell.KeyUp:
			if cur := list.GetCurrentItem(); cur > 0 {
				list.SetCurrentItem(cur - 1)
			}
			return nil
		case tcell.KeyEnter:
			cur := list.GetCurrentItem()
			if cur >= 0 && cur < len(matches) {
				t.actionsChan <- client.UserAction{Type: "SELECT_CHANNEL", Payload: matches[cur]}
			}
			t.closeDialog()
			return nil
		}
		return event
	})

	t.pages.AddPage(pageSwitcher, modal(flex, 44, 14), true, true)
	t.app.SetFocus(input)
}
