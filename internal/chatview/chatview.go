// Package chatview implements the standalone single-conversation page,
// reachable by direct link with nothing but a conversation id. Unlike the
// inbox it never loads the full conversation list: the counterpart's
// identity and the history are fetched jointly from the id alone.
//
// Same threading contract as the inbox model: methods and Apply run on the
// owning loop, spawned tasks talk back through post.
package chatview

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
)

// Fetcher is the slice of the API client this page needs.
type Fetcher interface {
	GetConversation(ctx context.Context, id int64) (*domain.User, error)
	ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error)
	SendMessage(ctx context.Context, conversationID int64, content string) (*domain.Message, error)
}

// State is the page phase.
type State int

const (
	StateLoading State = iota
	StateReady
	StateNotFound
)

type Model struct {
	ctx     context.Context
	fetcher Fetcher
	post    func(Event)
	log     *logrus.Logger

	user          domain.User
	authenticated bool

	conversationID int64
	seq            uint64
	other          *domain.User
	messages       []domain.Message
	state          State

	compose string
	sending bool
}

// Event is a completed asynchronous result waiting for Apply.
type Event interface{ isEvent() }

type conversationLoaded struct {
	seq            uint64
	conversationID int64
	other          *domain.User
	msgs           []domain.Message
	err            error
}

type messageSent struct {
	conversationID int64
	msg            *domain.Message
	err            error
}

func (conversationLoaded) isEvent() {}
func (messageSent) isEvent()        {}

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
		state:   StateLoading,
	}
	if user != nil {
		m.user = *user
		m.authenticated = true
	}
	return m
}

// Authenticated reports whether the page has a session; without one the
// presentation shows the log-in prompt and Open is a no-op.
func (m *Model) Authenticated() bool { return m.authenticated }

func (m *Model) State() State { return m.state }

// OtherUser returns the counterpart shown in the header, nil until loaded.
func (m *Model) OtherUser() *domain.User { return m.other }

func (m *Model) Messages() []domain.Message { return m.messages }

func (m *Model) ConversationID() int64 { return m.conversationID }

// Route returns the path for the current conversation.
func (m *Model) Route() string { return nav.MessagesPath(m.conversationID) }

// BackRoute is where the not-found state points the user: the full inbox.
func (m *Model) BackRoute() string { return string(nav.RouteMessages) }

// OwnMessage reports whether msg was sent by the current user.
func (m *Model) OwnMessage(msg domain.Message) bool {
	return msg.SenderID == m.user.ID
}

// Open loads the conversation behind id: history and counterpart profile
// are fetched concurrently and settle as one event. Re-opening with a new
// id supersedes any in-flight load.
func (m *Model) Open(conversationID int64) {
	if !m.authenticated || conversationID == 0 {
		return
	}
	m.conversationID = conversationID
	m.other = nil
	m.messages = nil
	m.state = StateLoading
	m.seq++
	seq := m.seq

	go func() {
		ev := conversationLoaded{seq: seq, conversationID: conversationID}
		var g errgroup.Group
		g.Go(func() error {
			other, err := m.fetcher.GetConversation(m.ctx, conversationID)
			if err != nil {
				return err
			}
			ev.other = other
			return nil
		})
		g.Go(func() error {
			msgs, err := m.fetcher.ListMessages(m.ctx, conversationID)
			if err != nil {
				// History failure alone degrades to an empty thread.
				m.log.WithError(err).WithField("conversation_id", conversationID).
					Warn("loading history failed")
			} else {
				ev.msgs = msgs
			}
			return nil
		})
		ev.err = g.Wait()
		m.post(ev)
	}()
}

// OpenRoute drives the model from a navigated path like "/messages/42".
func (m *Model) OpenRoute(path string) {
	id, ok := nav.ParseMessagesPath(path)
	if !ok || id == 0 {
		return
	}
	m.Open(id)
}

// Compose returns the compose text.
func (m *Model) Compose() string { return m.compose }

// SetCompose replaces the compose text.
func (m *Model) SetCompose(text string) { m.compose = text }

// Sending reports whether a send is in flight.
func (m *Model) Sending() bool { return m.sending }

// Send submits the trimmed compose text; same contract as the inbox:
// whitespace never leaves the client, duplicates are rejected in flight,
// failure preserves the text.
func (m *Model) Send() bool {
	content := strings.TrimSpace(m.compose)
	if content == "" || m.sending || m.state != StateReady {
		return false
	}
	m.sending = true
	conversationID := m.conversationID

	go func() {
		msg, err := m.fetcher.SendMessage(m.ctx, conversationID, content)
		m.post(messageSent{conversationID: conversationID, msg: msg, err: err})
	}()
	return true
}

// Apply folds one event into the model. Must run on the owning loop.
func (m *Model) Apply(ev Event) {
	switch e := ev.(type) {
	case conversationLoaded:
		m.applyConversationLoaded(e)
	case messageSent:
		m.applyMessageSent(e)
	}
}

func (m *Model) applyConversationLoaded(e conversationLoaded) {
	if e.seq != m.seq || e.conversationID != m.conversationID {
		m.log.WithField("conversation_id", e.conversationID).
			Debug("discarding superseded load result")
		return
	}
	if e.err != nil {
		if !errors.Is(e.err, domain.ErrNotFound) {
			m.log.WithError(e.err).Warn("loading conversation failed")
		}
		m.state = StateNotFound
		return
	}
	m.other = e.other
	m.messages = e.msgs
	m.state = StateReady
}

func (m *Model) applyMessageSent(e messageSent) {
	m.sending = false
	if e.err != nil {
		m.log.WithError(e.err).Warn("sending message failed")
		return
	}
	if e.conversationID != m.conversationID {
		return
	}
	m.messages = append(m.messages, *e.msg)
	m.compose = ""
}
