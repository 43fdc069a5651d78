package inbox

import "strings"

// Compose returns the current compose text.
func (m *Model) Compose() string { return m.compose }

// SetCompose replaces the compose text as the user types.
func (m *Model) SetCompose(text string) { m.compose = text }

// Sending reports whether a send is in flight; the UI disables the submit
// action while true.
func (m *Model) Sending() bool { return m.sending }

// Send trims and submits the compose text to the active conversation.
// Whitespace-only content never issues a request, and a second submit while
// one is in flight is rejected. Returns whether a request was issued.
func (m *Model) Send() bool {
	content := strings.TrimSpace(m.compose)
	if content == "" || m.sending {
		return false
	}
	if m.state != StateReady || m.selectedID == 0 {
		return false
	}

	m.sending = true
	conversationID := m.selectedID

	go func() {
		msg, err := m.fetcher.SendMessage(m.ctx, conversationID, content)
		m.post(messageSent{conversationID: conversationID, msg: msg, err: err})
	}()
	return true
}
