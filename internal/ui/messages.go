package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/format"
	"github.com/LostNSeeker/AlumnConnect/internal/inbox"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
)

const (
	lsConversations = "messages.conversations"
	tvThread        = "messages.thread"
	taCompose       = "messages.compose"
	pgMessages      = "messages.inner"
	ifNewChatSearch = "messages.newchat.search"
	lsNewChatUsers  = "messages.newchat.users"

	subMain    = "main"
	subNewChat = "newchat"
)

func (a *App) createMessagesPage() tview.Primitive {
	conversations := tview.NewList().ShowSecondaryText(true)
	conversations.SetBorder(true).SetTitle("Conversations (n: new, Tab: thread)")
	a.components[lsConversations] = conversations

	thread := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	thread.SetBorder(true).SetTitle("Messages")
	a.components[tvThread] = thread

	compose := tview.NewTextArea().
		SetPlaceholder("Type a message. Enter sends, Alt+Enter inserts a newline.")
	compose.SetBorder(true).SetTitle("Compose")
	a.components[taCompose] = compose

	compose.SetChangedFunc(func() {
		if a.inboxModel != nil {
			a.inboxModel.SetCompose(compose.GetText())
		}
	})
	conversations.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if a.inboxModel == nil {
			return
		}
		convs := a.inboxModel.Conversations()
		if index < 0 || index >= len(convs) {
			return
		}
		a.inboxModel.Select(convs[index].ID)
		a.syncRoute()
		a.renderInbox()
		a.app.SetFocus(a.components[taCompose])
	})
	conversations.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && (event.Rune() == 'n' || event.Rune() == 'N') {
			if a.inboxModel != nil && a.inboxModel.Authenticated() {
				a.inboxModel.ToggleNewChat()
				a.renderInbox()
				if a.inboxModel.ShowingNewChat() {
					a.app.SetFocus(a.components[ifNewChatSearch])
				}
			}
			return nil
		}
		if event.Key() == tcell.KeyTab {
			a.app.SetFocus(a.components[taCompose])
			return nil
		}
		return event
	})

	thread.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			if a.inboxModel != nil {
				a.inboxModel.Deselect()
				a.syncRoute()
				a.renderInbox()
			}
			a.app.SetFocus(conversations)
			return nil
		}
		return event
	})
	compose.SetInputCapture(composeCapture(compose, a))

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(thread, 0, 1, false).
		AddItem(compose, 5, 0, false)

	main := tview.NewFlex().
		AddItem(conversations, 0, 1, true).
		AddItem(right, 0, 2, false)

	inner := tview.NewPages()
	inner.AddPage(subMain, main, true, true)
	inner.AddPage(subNewChat, a.createNewChatPanel(), true, false)
	a.components[pgMessages] = inner

	return inner
}

// composeCapture wires the send keys for the inbox compose area.
func composeCapture(compose *tview.TextArea, a *App) func(*tcell.EventKey) *tcell.EventKey {
	return func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.app.SetFocus(a.components[lsConversations])
			return nil
		case tcell.KeyEnter:
			if event.Modifiers()&tcell.ModAlt != 0 {
				return tcell.NewEventKey(tcell.KeyEnter, '\n', tcell.ModNone)
			}
			if a.inboxModel != nil && a.inboxModel.Send() {
				a.renderInbox()
			}
			return nil
		}
		return event
	}
}

func (a *App) createNewChatPanel() tview.Primitive {
	search := tview.NewInputField().SetLabel("Search: ").SetFieldWidth(0)
	a.components[ifNewChatSearch] = search

	users := tview.NewList().ShowSecondaryText(true)
	users.SetBorder(false)
	a.components[lsNewChatUsers] = users

	search.SetChangedFunc(func(text string) {
		if a.inboxModel != nil {
			a.inboxModel.SetSearchTerm(text)
			a.renderNewChat()
		}
	})
	search.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEscape:
			a.closeNewChat()
		case tcell.KeyEnter, tcell.KeyTab:
			a.app.SetFocus(users)
		}
	})

	users.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if a.inboxModel == nil {
			return
		}
		candidates := a.inboxModel.Candidates()
		if index < 0 || index >= len(candidates) {
			return
		}
		a.inboxModel.StartConversation(candidates[index].ID)
		a.renderNewChat()
	})
	users.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.closeNewChat()
			return nil
		}
		if event.Key() == tcell.KeyBacktab {
			a.app.SetFocus(search)
			return nil
		}
		return event
	})

	panel := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(search, 1, 0, true).
		AddItem(users, 0, 1, false)
	panel.SetBorder(true).SetTitle("Start a conversation (Esc: close)")

	return center(panel, 60, 20)
}

func (a *App) closeNewChat() {
	if a.inboxModel != nil && a.inboxModel.ShowingNewChat() {
		a.inboxModel.ToggleNewChat()
	}
	a.renderInbox()
	a.app.SetFocus(a.components[lsConversations])
}

func (a *App) openMessages(conversationID int64) {
	// The post closure runs on fetch goroutines, so it must not read App
	// fields; it captures its own model and checks liveness on the UI loop.
	var model *inbox.Model
	post := func(ev inbox.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.inboxModel != model {
				return
			}
			model.Apply(ev)
			a.syncRoute()
			a.renderInbox()
		})
	}
	model = inbox.New(a.pageContext(), a.client, a.currentUser(), post, a.log)
	a.inboxModel = model
	model.Load()
	if conversationID != 0 {
		model.OpenRoute(nav.MessagesPath(conversationID))
	}
	a.renderInbox()
	a.root.SwitchToPage(PageMessages)
	a.app.SetFocus(a.components[lsConversations])
}

func (a *App) syncRoute() {
	if a.inboxModel == nil {
		return
	}
	if r := a.inboxModel.Route(); r != a.route {
		a.route = r
		a.renderHeader()
	}
}

func (a *App) renderInbox() {
	m := a.inboxModel
	if m == nil {
		return
	}

	list := a.components[lsConversations].(*tview.List)
	thread := a.components[tvThread].(*tview.TextView)
	inner := a.components[pgMessages].(*tview.Pages)

	if !m.Authenticated() {
		list.Clear()
		thread.SetText("Sign in to see your messages.")
		return
	}

	selectedIndex := -1
	list.Clear()
	for i, conv := range m.Conversations() {
		if conv.ID == m.SelectedID() {
			selectedIndex = i
		}
		list.AddItem(conversationLine(conv), conversationPreview(conv), 0, nil)
	}
	if m.Loading() && list.GetItemCount() == 0 {
		list.AddItem("Loading...", "", 0, nil)
	}
	if selectedIndex >= 0 {
		list.SetCurrentItem(selectedIndex)
	}

	a.renderThread(thread, m)

	// Keep the compose widget in step with the model: sends clear it on
	// success and preserve it on failure.
	compose := a.components[taCompose].(*tview.TextArea)
	if compose.GetText() != m.Compose() {
		compose.SetText(m.Compose(), true)
	}

	if m.ShowingNewChat() {
		inner.ShowPage(subNewChat)
		a.renderNewChat()
	} else {
		inner.HidePage(subNewChat)
	}
}

func (a *App) renderThread(thread *tview.TextView, m *inbox.Model) {
	switch m.State() {
	case inbox.StateNoSelection:
		thread.SetTitle("Messages")
		thread.SetText("Select a conversation.")
	case inbox.StateLoadingHistory:
		thread.SetTitle(threadTitle(m.Selected()))
		thread.SetText("Loading messages...")
	case inbox.StateNotFound:
		thread.SetTitle("Messages")
		thread.SetText("[red]Conversation not found.[-]")
	case inbox.StateReady:
		thread.SetTitle(threadTitle(m.Selected()))
		thread.SetText(renderMessages(m.Messages(), m.OwnMessage))
		thread.ScrollToEnd()
	}
}

func threadTitle(conv *domain.Conversation) string {
	if conv == nil {
		return "Messages"
	}
	title := conv.OtherUserName
	if conv.IsOnline {
		title += " (online)"
	}
	return title
}

func renderMessages(msgs []domain.Message, own func(domain.Message) bool) string {
	if len(msgs) == 0 {
		return "No messages yet. Say hello."
	}
	var b strings.Builder
	for _, msg := range msgs {
		who := "[green]them[-]"
		if own(msg) {
			who = "[blue]me[-]"
		}
		fmt.Fprintf(&b, "[gray]%s[-] %s: %s\n", format.ClockTime(msg.CreatedAt), who, msg.Content)
	}
	return b.String()
}

func conversationLine(conv domain.Conversation) string {
	line := conv.OtherUserName
	if conv.UnreadCount > 0 {
		line = fmt.Sprintf("%s [red](%d)[-]", line, conv.UnreadCount)
	}
	return line
}

func conversationPreview(conv domain.Conversation) string {
	if conv.LastMessage == nil {
		return "no messages"
	}
	preview := format.Truncate(*conv.LastMessage, 48)
	if conv.LastMessageTime != nil {
		preview = fmt.Sprintf("%s  %s", format.ClockTime(*conv.LastMessageTime), preview)
	}
	return preview
}

func (a *App) renderNewChat() {
	m := a.inboxModel
	if m == nil || !m.ShowingNewChat() {
		return
	}
	users := a.components[lsNewChatUsers].(*tview.List)
	users.Clear()
	for _, u := range m.Candidates() {
		secondary := u.Role
		if u.Department != nil {
			secondary += "  " + *u.Department
		}
		users.AddItem(u.Name, secondary, 0, nil)
	}
	if users.GetItemCount() == 0 {
		users.AddItem("No matches", "", 0, nil)
	}
}
