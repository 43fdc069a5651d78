package inbox

import "github.com/LostNSeeker/AlumnConnect/internal/domain"

// Event is a completed asynchronous result waiting to be applied on the
// owning loop.
type Event interface{ isEvent() }

type conversationsLoaded struct {
	convs []domain.Conversation
	err   error
}

type candidatesLoaded struct {
	users []domain.User
	err   error
}

type loadSettled struct{}

type historyLoaded struct {
	seq            uint64
	conversationID int64
	msgs           []domain.Message
	err            error
}

type messageSent struct {
	conversationID int64
	msg            *domain.Message
	err            error
}

// conversationStarted carries the refreshed lists alongside the created
// conversation so the selection can resolve against a list that already
// contains it.
type conversationStarted struct {
	conv  *domain.Conversation
	convs []domain.Conversation
	users []domain.User
	err   error
}

func (conversationsLoaded) isEvent() {}
func (candidatesLoaded) isEvent()    {}
func (loadSettled) isEvent()         {}
func (historyLoaded) isEvent()       {}
func (messageSent) isEvent()         {}
func (conversationStarted) isEvent() {}

// Apply folds one event into the model. Must run on the owning loop.
func (m *Model) Apply(ev Event) {
	switch e := ev.(type) {
	case conversationsLoaded:
		m.applyConversationsLoaded(e)
	case candidatesLoaded:
		m.applyCandidatesLoaded(e)
	case loadSettled:
		m.loading = false
	case historyLoaded:
		m.applyHistoryLoaded(e)
	case messageSent:
		m.applyMessageSent(e)
	case conversationStarted:
		m.applyConversationStarted(e)
	}
}

func (m *Model) applyConversationsLoaded(e conversationsLoaded) {
	m.listLoaded = true
	if e.err != nil {
		m.log.WithError(e.err).Warn("loading conversations failed")
		m.conversations = nil
	} else {
		m.conversations = e.convs
	}
	m.resolvePending()
}

func (m *Model) applyCandidatesLoaded(e candidatesLoaded) {
	if e.err != nil {
		m.log.WithError(e.err).Warn("loading available users failed")
		m.candidates = nil
		return
	}
	m.candidates = e.users
}

func (m *Model) applyHistoryLoaded(e historyLoaded) {
	if e.seq != m.historySeq || e.conversationID != m.selectedID {
		// Stale result for a selection the user has already left.
		m.log.WithField("conversation_id", e.conversationID).
			Debug("discarding superseded history result")
		return
	}
	if e.err != nil {
		m.log.WithError(e.err).WithField("conversation_id", e.conversationID).
			Warn("loading history failed")
		m.messages = nil
		m.state = StateReady
		return
	}
	m.messages = e.msgs
	m.state = StateReady
}

func (m *Model) applyMessageSent(e messageSent) {
	m.sending = false
	if e.err != nil {
		// Compose text is preserved so the user can retry.
		m.log.WithError(e.err).Warn("sending message failed")
		return
	}
	if e.conversationID == m.selectedID {
		m.messages = append(m.messages, *e.msg)
		m.compose = ""
	}
	if conv := m.findConversation(e.conversationID); conv != nil {
		content := e.msg.Content
		created := e.msg.CreatedAt
		conv.LastMessage = &content
		conv.LastMessageTime = &created
	}
}

func (m *Model) applyConversationStarted(e conversationStarted) {
	m.starting = false
	if e.err != nil {
		// Flow stays open, selection untouched.
		m.log.WithError(e.err).Warn("starting conversation failed")
		return
	}
	if e.convs != nil {
		m.conversations = e.convs
	}
	if e.users != nil {
		m.candidates = e.users
	}
	m.showNewChat = false
	m.searchTerm = ""
	m.beginHistoryFetch(e.conv.ID)
}
