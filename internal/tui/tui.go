// Package tui renders the chanstr interface with tview: a navigation rail,
// the channel sidebar, the chat view, a thread side panel, and modal
// dialogs for channels, relays and the quick switcher. It holds no model
// state of its own beyond the last snapshot; every interaction goes out as
// a UserAction.
package tui

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/chanstr/chanstr-tui/internal/client"
)

const (
	pageMain          = "main"
	pageChannelDialog = "channel-dialog"
	pageRelayDialog   = "relay-dialog"
	pageSwitcher      = "switcher"

	relaysPerPage = 8
	maxContent    = 500
)

type tui struct {
	app         *tview.Application
	actionsChan chan<- client.UserAction

	// UI components
	pages      *tview.Pages
	mainFlex   *tview.Flex
	navRail    *tview.TextView
	search     *tview.InputField
	sidebar    *tview.List
	chat       *tview.List
	threadView *tview.TextView
	logs       *tview.TextView
	hints      *tview.TextView

	contentFlex *tview.Flex

	// Last snapshot from the client
	state    client.StateUpdate
	messages []client.Message
	visible  []int

	// UI state
	threadOpen bool
	relayPage  int
	theme      *theme
}

// New creates and initializes the entire TUI application.
func New(actions chan<- client.UserAction, events <-chan client.DisplayEvent) *tui {
	t := &tui{
		app:         tview.NewApplication(),
		actionsChan: actions,
		theme:       defaultTheme,
	}

	t.setupViews()
	t.setupHandlers()
	t.app.SetRoot(t.pages, true).SetFocus(t.sidebar)
	t.updateHints()

	go t.listenForEvents(events)

	return t
}

// logWriter redirects the standard logger into the logs TextView.
type logWriter struct {
	textViewWriter io.Writer
	getColor       func() tcell.Color
}

func (lw *logWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	ts := time.Now().Format("15:04:05")
	return fmt.Fprintf(lw.textViewWriter, "\n[%s][%s] %s[-]", lw.getColor(), ts, msg)
}

const (
	titleChannels = "Channels (/ filter)"
	titleChat     = "Messages"
	titleThread   = "Thread (Esc)"
	titleLogs     = "Logs"
)

func (t *tui) setupViews() {
	tview.Styles.PrimitiveBackgroundColor = t.theme.backgroundColor
	tview.Styles.PrimaryTextColor = t.theme.textColor
	tview.Styles.BorderColor = t.theme.borderColor
	tview.Styles.TitleColor = t.theme.titleColor

	t.navRail = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	t.navRail.SetBorder(true)

	t.search = tview.NewInputField().
		SetLabel("/ ").
		SetFieldBackgroundColor(t.theme.backgroundColor)
	t.search.SetChangedFunc(func(string) { t.updateSidebar() })

	t.sidebar = tview.NewList().
		ShowSecondaryText(false).
		SetSelectedBackgroundColor(t.theme.borderColor)
	t.sidebar.SetBorder(true).SetTitle(titleChannels).SetTitleAlign(tview.AlignLeft)

	t.chat = tview.NewList().
		ShowSecondaryText(false).
		SetSelectedBackgroundColor(t.theme.borderColor)
	t.chat.SetBorder(true).SetTitle(titleChat).SetTitleAlign(tview.AlignLeft)

	t.threadView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() { t.app.Draw() })
	t.threadView.SetBorder(true).SetTitle(titleThread).SetTitleAlign(tview.AlignLeft)

	t.logs = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() { t.app.Draw() })
	t.logs.SetBorder(true).SetTitle(titleLogs).SetTitleAlign(tview.AlignLeft)
	log.SetOutput(&logWriter{
		textViewWriter: tview.ANSIWriter(t.logs),
		getColor:       func() tcell.Color { return t.theme.logInfoColor },
	})
	log.SetFlags(0)

	t.hints = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	t.initLayout()
	t.updateNavRail()
}

func (t *tui) initLayout() {
	sidebarFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.search, 1, 0, false).
		AddItem(t.sidebar, 0, 1, true)

	t.contentFlex = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.navRail, 5, 0, false).
		AddItem(sidebarFlex, 28, 0, true).
		AddItem(t.chat, 0, 1, false)

	t.mainFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.contentFlex, 0, 1, true).
		AddItem(t.logs, 4, 0, false).
		AddItem(t.hints, 1, 0, false)

	t.pages = tview.NewPages().
		AddPage(pageMain, t.mainFlex, true, true)
}

// listenForEvents is the main loop processing events from the client.
func (t *tui) listenForEvents(events <-chan client.DisplayEvent) {
	for event := range events {
		if event.Type == "SHUTDOWN" {
			break
		}

		t.app.QueueUpdateDraw(func() {
			switch event.Type {
			case "STATE_UPDATE":
				t.handleStateUpdate(event)
			case "MESSAGES":
				t.handleMessages(event)
			case "NEW_MESSAGE":
				t.handleNewMessage(event)
			case "THREAD":
				t.handleThread(event)
			case "THREAD_CLOSED":
				t.closeThreadPanel()
			case "STATUS", "ERROR":
				t.handleLogMessage(event)
			}
		})
	}
	t.app.Stop()
}

func (t *tui) handleStateUpdate(event client.DisplayEvent) {
	state, ok := event.Payload.(client.StateUpdate)
	if !ok {
		fmt.Fprintf(t.logs, "\n[%s]ERROR: Invalid STATE_UPDATE payload[-]", t.theme.logErrorColor)
		return
	}
	t.state = state
	t.updateSidebar()
	t.updateNavRail()
}

func (t *tui) handleMessages(event client.DisplayEvent) {
	update, ok := event.Payload.(client.MessagesUpdate)
	if !ok {
		return
	}
	t.messages = update.Messages
	t.chat.SetTitle(fmt.Sprintf("%s: %s", titleChat, update.Channel))
	t.renderChat()
}

func (t *tui) handleNewMessage(event client.DisplayEvent) {
	msg, ok := event.Payload.(client.Message)
	if !ok {
		return
	}
	t.messages = append(t.messages, msg)
	t.renderChat()
}

func (t *tui) handleThread(event client.DisplayEvent) {
	update, ok := event.Payload.(client.ThreadUpdate)
	if !ok {
		return
	}
	t.openThreadPanel(update)
}

func (t *tui) handleLogMessage(event client.DisplayEvent) {
	color := t.theme.logWarnColor
	if event.Type == "ERROR" {
		color = t.theme.logErrorColor
	}
	fmt.Fprintf(t.logs, "\n[%s][%s] %s: %s[-]", color, time.Now().Format("15:04:05"), event.Type, event.Content)
	t.logs.ScrollToEnd()
}

// updateSidebar rebuilds the channel list from the snapshot, honoring the
// search filter.
func (t *tui) updateSidebar() {
	t.visible = filterChannels(t.state.Channels, t.search.GetText())

	current := t.sidebar.GetCurrentItem()
	t.sidebar.Clear()
	for _, idx := range t.visible {
		ch := t.state.Channels[idx]
		label := "# " + ch.Name
		if idx == t.state.Selected {
			label = "[::b]" + label + "[-:-:-]"
		}
		if ch.Unread > 0 {
			label = fmt.Sprintf("%s [%s](%d)[-]", label, t.theme.accentColor, ch.Unread)
		}
		t.sidebar.AddItem(label, "", 0, nil)
	}
	if current >= 0 && current < t.sidebar.GetItemCount() {
		t.sidebar.SetCurrentItem(current)
	}
}

func (t *tui) updateNavRail() {
	t.navRail.Clear()
	fmt.Fprintf(t.navRail, "[%s]⌂[-]\n\n#\n\n@ %s\n\n☷ %d", t.theme.titleColor, shortIdentity(t.state.Identity), len(t.state.Relays))
}

// renderChat draws messages grouped by author: the author header appears on
// group starts only, grouped messages are indented under it.
func (t *tui) renderChat() {
	t.chat.Clear()
	groups := groupMessages(t.messages, messageGroupWindow)
	for _, g := range groups {
		colorTag := pubkeyToColor(g.Author, t.theme.nickPalette)
		for i, m := range g.Messages {
			content := sanitizeString(truncateString(m.Content, maxContent))
			content = strings.ReplaceAll(content, "\n", " ")
			var line string
			if i == 0 {
				line = fmt.Sprintf("%s%s[-] %s [%s]%s[-]",
					colorTag, g.ShortKey, content,
					t.theme.logInfoColor, m.CreatedAt.Format("15:04"))
			} else {
				line = fmt.Sprintf("%s %s [%s]%s[-]",
					strings.Repeat(" ", len(g.ShortKey)), content,
					t.theme.logInfoColor, m.CreatedAt.Format("15:04"))
			}
			t.chat.AddItem(line, "", 0, nil)
		}
	}
	if t.chat.GetItemCount() > 0 {
		t.chat.SetCurrentItem(t.chat.GetItemCount() - 1)
	}
}

func (t *tui) openThreadPanel(update client.ThreadUpdate) {
	if !t.threadOpen {
		t.contentFlex.AddItem(t.threadView, 40, 0, false)
		t.threadOpen = true
	}
	t.threadView.Clear()
	if len(update.Messages) == 0 {
		fmt.Fprintf(t.threadView, "[%s]No notes found for this thread yet.[-]", t.theme.logInfoColor)
	}
	for _, m := range update.Messages {
		colorTag := pubkeyToColor(m.Author, t.theme.nickPalette)
		fmt.Fprintf(t.threadView, "%s%s[-] [%s]%s[-]\n%s\n\n",
			colorTag, m.ShortKey,
			t.theme.logInfoColor, m.CreatedAt.Format("Jan 2 15:04"),
			tview.Escape(sanitizeString(m.Content)))
	}
	t.updateHints()
}

func (t *tui) closeThreadPanel() {
	if !t.threadOpen {
		return
	}
	t.contentFlex.RemoveItem(t.threadView)
	t.threadOpen = false
	t.updateHints()
}

func (t *tui) updateHints() {
	hints := "[::b]Enter[-:-:-] open  [::b]a[-:-:-] add  [::b]e[-:-:-] edit  [::b]d[-:-:-] delete  [::b]r[-:-:-] relays  [::b]Ctrl-K[-:-:-] switcher  [::b]/[-:-:-] filter  [::b]Ctrl-C[-:-:-] quit"
	if t.threadOpen {
		hints = "[::b]Esc[-:-:-] close thread  " + hints
	}
	t.hints.SetText(hints)
}

func shortIdentity(pubkey string) string {
	if len(pubkey) <= 8 {
		return pubkey
	}
	return pubkey[:8]
}

// Run starts the TUI application.
func (t *tui) Run() error {
	return t.app.Run()
}
