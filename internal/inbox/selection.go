package inbox

import "github.com/LostNSeeker/AlumnConnect/internal/nav"

// Select activates a conversation, normally from a list click. When the
// conversation list has not arrived yet (a deep link on page entry) the id
// is parked until it does.
func (m *Model) Select(conversationID int64) {
	if !m.authenticated || conversationID == 0 {
		return
	}
	if conversationID == m.selectedID && m.state != StateNotFound {
		return
	}
	if !m.listLoaded {
		m.pendingID = conversationID
		m.state = StateLoadingHistory
		m.setRoute(conversationID)
		return
	}
	m.resolveSelection(conversationID)
}

// OpenRoute drives the model from a navigated path, e.g. "/messages/42".
// Unparseable paths are ignored.
func (m *Model) OpenRoute(path string) {
	id, ok := nav.ParseMessagesPath(path)
	if !ok {
		return
	}
	if id == 0 {
		m.Deselect()
		return
	}
	m.Select(id)
}

// Deselect returns to the no-selection view and clears the history from
// memory. Only the combined inbox offers this back action.
func (m *Model) Deselect() {
	m.selectedID = 0
	m.pendingID = 0
	m.historySeq++ // orphan any in-flight history fetch
	m.messages = nil
	m.state = StateNoSelection
	m.setRoute(0)
}

// resolvePending retries a parked deep link once the list is available.
func (m *Model) resolvePending() {
	if m.pendingID == 0 {
		return
	}
	id := m.pendingID
	m.pendingID = 0
	m.resolveSelection(id)
}

// resolveSelection checks the id against the fetched list: a hit starts the
// history fetch, a miss is the explicit not-found state (stale deep link).
func (m *Model) resolveSelection(conversationID int64) {
	if m.findConversation(conversationID) == nil {
		m.selectedID = conversationID
		m.messages = nil
		m.state = StateNotFound
		m.setRoute(conversationID)
		return
	}
	m.beginHistoryFetch(conversationID)
}

// beginHistoryFetch moves to loading-history for conversationID and spawns
// the fetch. The sequence number lets Apply discard results that resolve
// after the user has moved on.
func (m *Model) beginHistoryFetch(conversationID int64) {
	m.selectedID = conversationID
	m.state = StateLoadingHistory
	m.setRoute(conversationID)
	m.historySeq++
	seq := m.historySeq

	go func() {
		msgs, err := m.fetcher.ListMessages(m.ctx, conversationID)
		m.post(historyLoaded{seq: seq, conversationID: conversationID, msgs: msgs, err: err})
	}()
}

// setRoute mirrors the active selection into the navigable path without a
// reload, so refresh and back/forward land on the same conversation.
func (m *Model) setRoute(conversationID int64) {
	m.route = nav.MessagesPath(conversationID)
}
