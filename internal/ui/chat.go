package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/LostNSeeker/AlumnConnect/internal/chatview"
)

const (
	tvChatThread  = "chat.thread"
	taChatCompose = "chat.compose"
)

func (a *App) createChatPage() tview.Primitive {
	thread := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	thread.SetBorder(true).SetTitle("Chat (Esc: back to messages)")
	a.components[tvChatThread] = thread

	compose := tview.NewTextArea().
		SetPlaceholder("Type a message. Enter sends, Alt+Enter inserts a newline.")
	compose.SetBorder(true).SetTitle("Compose")
	a.components[taChatCompose] = compose

	compose.SetChangedFunc(func() {
		if a.chatModel != nil {
			a.chatModel.SetCompose(compose.GetText())
		}
	})
	compose.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			a.leaveChat()
			return nil
		case tcell.KeyEnter:
			if event.Modifiers()&tcell.ModAlt != 0 {
				return tcell.NewEventKey(tcell.KeyEnter, '\n', tcell.ModNone)
			}
			if a.chatModel != nil && a.chatModel.Send() {
				a.renderChat()
			}
			return nil
		}
		return event
	})

	thread.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.leaveChat()
			return nil
		}
		if event.Key() == tcell.KeyTab {
			a.app.SetFocus(compose)
			return nil
		}
		return event
	})

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(thread, 0, 1, true).
		AddItem(compose, 5, 0, false)
}

func (a *App) openChat(conversationID int64) {
	var model *chatview.Model
	post := func(ev chatview.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.chatModel != model {
				return
			}
			model.Apply(ev)
			a.renderChat()
		})
	}
	model = chatview.New(a.pageContext(), a.client, a.currentUser(), post, a.log)
	a.chatModel = model
	model.Open(conversationID)
	a.renderChat()
	a.root.SwitchToPage(PageChat)
	a.app.SetFocus(a.components[taChatCompose])
}

func (a *App) leaveChat() {
	back := "/messages"
	if a.chatModel != nil {
		back = a.chatModel.BackRoute()
	}
	a.Navigate(back)
}

func (a *App) renderChat() {
	m := a.chatModel
	if m == nil {
		return
	}
	thread := a.components[tvChatThread].(*tview.TextView)
	compose := a.components[taChatCompose].(*tview.TextArea)
	if compose.GetText() != m.Compose() {
		compose.SetText(m.Compose(), true)
	}

	if !m.Authenticated() {
		thread.SetText("Sign in to see your messages.")
		return
	}

	switch m.State() {
	case chatview.StateLoading:
		thread.SetTitle("Chat")
		thread.SetText("Loading conversation...")
	case chatview.StateNotFound:
		thread.SetTitle("Chat")
		thread.SetText("[red]Conversation not found.[-] Press Esc to go back.")
	case chatview.StateReady:
		title := "Chat"
		if other := m.OtherUser(); other != nil {
			title = other.Name
			if other.IsOnline {
				title += " (online)"
			}
		}
		thread.SetTitle(title + " (Esc: back)")
		thread.SetText(renderMessages(m.Messages(), m.OwnMessage))
		thread.ScrollToEnd()
	}
}
