package inbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/inbox"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockFetcher) ListAvailableUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockFetcher) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockFetcher) SendMessage(ctx context.Context, conversationID int64, content string) (*domain.Message, error) {
	args := m.Called(ctx, conversationID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockFetcher) StartConversation(ctx context.Context, otherUserID int64) (*domain.Conversation, error) {
	args := m.Called(ctx, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

// harness runs the model on the test goroutine: async results queue up on
// events and are applied by hand, which is what lets the race tests control
// resolution order.
type harness struct {
	model  *inbox.Model
	events chan inbox.Event
}

func newHarness(f inbox.Fetcher, user *domain.User) *harness {
	h := &harness{events: make(chan inbox.Event, 32)}
	h.model = inbox.New(context.Background(), f, user, func(ev inbox.Event) { h.events <- ev }, nil)
	return h
}

func (h *harness) next(t *testing.T) inbox.Event {
	t.Helper()
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// until applies queued events until cond holds.
func (h *harness) until(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 32; i++ {
		if cond() {
			return
		}
		h.model.Apply(h.next(t))
	}
	t.Fatal("condition never reached")
}

var ada = domain.User{ID: 1, Name: "Ada Lovelace", Role: domain.RoleStudent}

func conv(id, otherID int64, name string) domain.Conversation {
	return domain.Conversation{ID: id, OtherUserID: otherID, OtherUserName: name}
}

func TestUnauthenticatedVisitIssuesNoRequests(t *testing.T) {
	f := new(MockFetcher)
	h := newHarness(f, nil)

	h.model.Load()
	h.model.OpenRoute("/messages")

	assert.False(t, h.model.Authenticated())
	assert.Empty(t, h.events)
	f.AssertNotCalled(t, "ListConversations", mock.Anything)
	f.AssertNotCalled(t, "ListAvailableUsers", mock.Anything)
}

func TestDeepLinkToExistingConversation(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(42, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(42)).Return([]domain.Message{
		{ID: 1, SenderID: 2, Content: "hi"},
	}, nil)

	h := newHarness(f, &ada)
	assert.Equal(t, inbox.StateNoSelection, h.model.State())

	h.model.Load()
	h.model.OpenRoute("/messages/42")
	assert.Equal(t, inbox.StateLoadingHistory, h.model.State())
	assert.Equal(t, "/messages/42", h.model.Route())

	h.until(t, func() bool { return h.model.State() == inbox.StateReady })
	assert.Equal(t, int64(42), h.model.SelectedID())
	assert.Len(t, h.model.Messages(), 1)
	assert.Equal(t, "/messages/42", h.model.Route())
}

func TestDeepLinkToAbsentConversationIsNotFound(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(1, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.model.OpenRoute("/messages/999")

	h.until(t, func() bool { return h.model.State() == inbox.StateNotFound })
	assert.Empty(t, h.model.Messages())
	f.AssertNotCalled(t, "ListMessages", mock.Anything, int64(999))
}

func TestEmptyHistoryIsReady(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(5, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(5)).Return([]domain.Message{}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.until(t, func() bool { return !h.model.Loading() })

	h.model.Select(5)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })
	assert.Empty(t, h.model.Messages())
}

func TestOneListFailureDoesNotBlockTheOther(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return(nil, domain.ErrUnavailable)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{{ID: 7, Name: "Rahul"}}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.until(t, func() bool { return !h.model.Loading() })

	assert.Empty(t, h.model.Conversations())
	assert.Len(t, h.model.Candidates(), 1)
}

func TestWhitespaceSendIssuesNoRequest(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(5, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(5)).Return([]domain.Message{}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.model.Select(5)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })

	h.model.SetCompose("   \n\t ")
	assert.False(t, h.model.Send())
	f.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendLifecycle(t *testing.T) {
	now := time.Now()
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(5, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(5)).Return([]domain.Message{}, nil)
	f.On("SendMessage", mock.Anything, int64(5), "hello").Return(&domain.Message{
		ID: 77, SenderID: ada.ID, ReceiverID: 2, Content: "hello", CreatedAt: now,
	}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.model.Select(5)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })

	h.model.SetCompose("hello\n")
	require.True(t, h.model.Send())
	assert.True(t, h.model.Sending())
	assert.False(t, h.model.Send(), "no duplicate submits while in flight")

	h.until(t, func() bool { return !h.model.Sending() })

	require.Len(t, h.model.Messages(), 1)
	sent := h.model.Messages()[0]
	assert.Equal(t, int64(77), sent.ID)
	assert.Equal(t, ada.ID, sent.SenderID)
	assert.True(t, h.model.OwnMessage(sent))
	assert.Empty(t, h.model.Compose())

	sel := h.model.Selected()
	require.NotNil(t, sel)
	require.NotNil(t, sel.LastMessage)
	assert.Equal(t, "hello", *sel.LastMessage)
	require.NotNil(t, sel.LastMessageTime)
	assert.True(t, sel.LastMessageTime.Equal(now))

	f.AssertNumberOfCalls(t, "ListConversations", 1) // preview patched in place, no re-fetch
}

func TestSendFailureKeepsCompose(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(5, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(5)).Return([]domain.Message{}, nil)
	f.On("SendMessage", mock.Anything, int64(5), "hello").Return(nil, domain.ErrUnavailable)

	h := newHarness(f, &ada)
	h.model.Load()
	h.model.Select(5)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })

	h.model.SetCompose("hello")
	require.True(t, h.model.Send())
	h.until(t, func() bool { return !h.model.Sending() })

	assert.Equal(t, "hello", h.model.Compose())
	assert.Empty(t, h.model.Messages())
}

func TestStaleHistoryResultIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{
		conv(1, 2, "Priya"), conv(2, 3, "Rahul"),
	}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	// The fetch for conversation 1 is held back so the later-issued fetch
	// for conversation 2 resolves first.
	f.On("ListMessages", mock.Anything, int64(1)).Run(func(mock.Arguments) { <-gate }).
		Return([]domain.Message{{ID: 10, Content: "old"}}, nil)
	f.On("ListMessages", mock.Anything, int64(2)).Return([]domain.Message{{ID: 20, Content: "new"}}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.until(t, func() bool { return !h.model.Loading() })

	h.model.Select(1)
	h.model.Select(2)

	h.until(t, func() bool { return h.model.State() == inbox.StateReady })
	close(gate)
	h.model.Apply(h.next(t)) // the stale conversation-1 result

	assert.Equal(t, int64(2), h.model.SelectedID())
	require.Len(t, h.model.Messages(), 1)
	assert.Equal(t, "new", h.model.Messages()[0].Content)
	assert.Equal(t, "/messages/2", h.model.Route())
}

func TestStartConversationFlow(t *testing.T) {
	f := new(MockFetcher)
	candidate := domain.User{ID: 7, Name: "Rahul Verma", Role: domain.RoleAlumni}
	created := conv(99, 7, "Rahul Verma")

	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{}, nil).Once()
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{candidate}, nil).Once()
	f.On("StartConversation", mock.Anything, int64(7)).Return(&created, nil)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{created}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(99)).Return([]domain.Message{}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.until(t, func() bool { return !h.model.Loading() })

	h.model.ToggleNewChat()
	require.True(t, h.model.ShowingNewChat())
	require.Len(t, h.model.Candidates(), 1)

	h.model.StartConversation(7)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })

	assert.False(t, h.model.ShowingNewChat())
	assert.Equal(t, int64(99), h.model.SelectedID())
	assert.Equal(t, "/messages/99", h.model.Route())
	assert.Empty(t, h.model.Candidates())
	f.AssertNumberOfCalls(t, "ListConversations", 2) // initial load + post-start refresh
}

func TestStartConversationFailureLeavesFlowOpen(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{{ID: 7, Name: "Rahul"}}, nil)
	f.On("StartConversation", mock.Anything, int64(7)).Return(nil, domain.ErrUnavailable)

	h := newHarness(f, &ada)
	h.model.Load()
	h.until(t, func() bool { return !h.model.Loading() })

	h.model.ToggleNewChat()
	h.model.StartConversation(7)
	h.model.Apply(h.next(t))

	assert.True(t, h.model.ShowingNewChat())
	assert.Equal(t, inbox.StateNoSelection, h.model.State())
	assert.Zero(t, h.model.SelectedID())
}

func TestDeselectClearsHistory(t *testing.T) {
	f := new(MockFetcher)
	f.On("ListConversations", mock.Anything).Return([]domain.Conversation{conv(5, 2, "Priya")}, nil)
	f.On("ListAvailableUsers", mock.Anything).Return([]domain.User{}, nil)
	f.On("ListMessages", mock.Anything, int64(5)).Return([]domain.Message{{ID: 1, Content: "hi"}}, nil)

	h := newHarness(f, &ada)
	h.model.Load()
	h.model.Select(5)
	h.until(t, func() bool { return h.model.State() == inbox.StateReady })

	h.model.Deselect()
	assert.Equal(t, inbox.StateNoSelection, h.model.State())
	assert.Empty(t, h.model.Messages())
	assert.Equal(t, "/messages", h.model.Route())
	assert.Nil(t, h.model.Selected())
}

func TestFilterCandidates(t *testing.T) {
	users := []domain.User{
		{ID: 1, Name: "Ada Lovelace"},
		{ID: 2, Name: "Grace Hopper"},
		{ID: 3, Name: "ada developer"},
	}

	t.Run("EmptyTermReturnsAllButSelf", func(t *testing.T) {
		got := inbox.FilterCandidates(users, 1, "")
		assert.Len(t, got, 2)
	})

	t.Run("CaseInsensitiveSubstring", func(t *testing.T) {
		got := inbox.FilterCandidates(users, 0, "ADA")
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("NoMatches", func(t *testing.T) {
		assert.Empty(t, inbox.FilterCandidates(users, 0, "zzz"))
	})
}
