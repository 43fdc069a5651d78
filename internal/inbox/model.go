// Package inbox implements the conversation view-model behind the combined
// messages page: the conversation list, the active selection and its
// history, the compose state, and the new-conversation flow.
//
// The model is single-threaded: every method and Apply must run on the
// owning event loop. Asynchronous work is spawned as goroutines that only
// talk back through the post callback, which the presentation layer routes
// onto its loop. Results that arrive for a superseded selection are
// discarded by Apply, never the loop's problem.
package inbox

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
)

// Fetcher is the slice of the API client the inbox needs.
type Fetcher interface {
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
	ListAvailableUsers(ctx context.Context) ([]domain.User, error)
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	SendMessage(ctx context.Context, conversationID int64, content string) (*domain.Message, error)
	StartConversation(ctx context.Context, otherUserID int64) (*domain.Conversation, error)
}

// SelectionState is the phase of the active-conversation state machine.
type SelectionState int

const (
	StateNoSelection SelectionState = iota
	StateLoadingHistory
	StateReady
	StateNotFound
)

func (s SelectionState) String() string {
	switch s {
	case StateNoSelection:
		return "no-selection"
	case StateLoadingHistory:
		return "loading-history"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not-found"
	}
	return "unknown"
}

type Model struct {
	// ctx spans the mounted page; navigation away cancels it and with it
	// any in-flight request.
	ctx     context.Context
	fetcher Fetcher
	post    func(Event)
	log     *logrus.Logger

	user          domain.User
	authenticated bool

	loading       bool
	listLoaded    bool
	conversations []domain.Conversation
	candidates    []domain.User

	state      SelectionState
	selectedID int64
	pendingID  int64 // deep-linked id awaiting the conversation list
	messages   []domain.Message
	historySeq uint64

	compose string
	sending bool

	showNewChat bool
	searchTerm  string
	starting    bool

	route string
}

// New builds the model for one mounting of the messages page. user is nil
// when no session exists; post delivers events back onto the caller's loop
// and must never block for long.
func New(ctx context.Context, fetcher Fetcher, user *domain.User, post func(Event), log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	m := &Model{
		ctx:     ctx,
		fetcher: fetcher,
		post:    post,
		log:     log,
		state:   StateNoSelection,
		route:   string(nav.RouteMessages),
	}
	if user != nil {
		m.user = *user
		m.authenticated = true
	}
	return m
}

// Authenticated reports whether the page has a session to work with.
func (m *Model) Authenticated() bool { return m.authenticated }

// Loading reports whether the initial list fetches are still in flight.
func (m *Model) Loading() bool { return m.loading }

// State returns the selection state.
func (m *Model) State() SelectionState { return m.state }

// Route returns the path the address bar should show right now.
func (m *Model) Route() string { return m.route }

// Conversations returns the list in server order; callers must not mutate.
func (m *Model) Conversations() []domain.Conversation { return m.conversations }

// Messages returns the active conversation's history, oldest first.
func (m *Model) Messages() []domain.Message { return m.messages }

// Selected returns the active conversation, or nil.
func (m *Model) Selected() *domain.Conversation {
	if m.selectedID == 0 {
		return nil
	}
	return m.findConversation(m.selectedID)
}

// SelectedID returns the active conversation id, 0 when none.
func (m *Model) SelectedID() int64 { return m.selectedID }

// OwnMessage reports whether msg was sent by the current user.
func (m *Model) OwnMessage(msg domain.Message) bool {
	return msg.SenderID == m.user.ID
}

func (m *Model) findConversation(id int64) *domain.Conversation {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			return &m.conversations[i]
		}
	}
	return nil
}

// FilterCandidates returns the users whose display name contains term
// case-insensitively, excluding the user with excludeID. An empty term
// keeps the full list.
func FilterCandidates(users []domain.User, excludeID int64, term string) []domain.User {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		if needle == "" || strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
		}
	}
	return out
}
