package chatview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LostNSeeker/AlumnConnect/internal/chatview"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) GetConversation(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
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

type harness struct {
	model  *chatview.Model
	events chan chatview.Event
}

func newHarness(f chatview.Fetcher, user *domain.User) *harness {
	h := &harness{events: make(chan chatview.Event, 16)}
	h.model = chatview.New(context.Background(), f, user, func(ev chatview.Event) { h.events <- ev }, nil)
	return h
}

func (h *harness) next(t *testing.T) chatview.Event {
	t.Helper()
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

var ada = domain.User{ID: 1, Name: "Ada Lovelace", Role: domain.RoleStudent}

func TestUnauthenticatedOpenIssuesNoRequests(t *testing.T) {
	f := new(MockFetcher)
	h := newHarness(f, nil)

	h.model.OpenRoute("/messages/42")

	assert.False(t, h.model.Authenticated())
	assert.Empty(t, h.events)
	f.AssertNotCalled(t, "GetConversation", mock.Anything, mock.Anything)
	f.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything)
}

func TestOpenLoadsHeaderAndHistoryJointly(t *testing.T) {
	other := domain.User{ID: 2, Name: "Priya Sharma", Role: domain.RoleAlumni}
	f := new(MockFetcher)
	f.On("GetConversation", mock.Anything, int64(42)).Return(&other, nil)
	f.On("ListMessages", mock.Anything, int64(42)).Return([]domain.Message{
		{ID: 1, SenderID: 2, Content: "hi"},
	}, nil)

	h := newHarness(f, &ada)
	h.model.OpenRoute("/messages/42")
	assert.Equal(t, chatview.StateLoading, h.model.State())

	h.model.Apply(h.next(t))

	assert.Equal(t, chatview.StateReady, h.model.State())
	require.NotNil(t, h.model.OtherUser())
	assert.Equal(t, "Priya Sharma", h.model.OtherUser().Name)
	assert.Len(t, h.model.Messages(), 1)
	assert.Equal(t, "/messages/42", h.model.Route())
}

func TestUnresolvableConversationIsNotFound(t *testing.T) {
	f := new(MockFetcher)
	f.On("GetConversation", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound)
	f.On("ListMessages", mock.Anything, int64(404)).Return([]domain.Message{}, nil)

	h := newHarness(f, &ada)
	h.model.Open(404)
	h.model.Apply(h.next(t))

	assert.Equal(t, chatview.StateNotFound, h.model.State())
	assert.Equal(t, "/messages", h.model.BackRoute())
}

func TestHistoryFailureAloneDegradesToEmptyThread(t *testing.T) {
	other := domain.User{ID: 2, Name: "Priya"}
	f := new(MockFetcher)
	f.On("GetConversation", mock.Anything, int64(7)).Return(&other, nil)
	f.On("ListMessages", mock.Anything, int64(7)).Return(nil, domain.ErrUnavailable)

	h := newHarness(f, &ada)
	h.model.Open(7)
	h.model.Apply(h.next(t))

	assert.Equal(t, chatview.StateReady, h.model.State())
	assert.Empty(t, h.model.Messages())
}

func TestReopenSupersedesInFlightLoad(t *testing.T) {
	gate := make(chan struct{})
	slow := domain.User{ID: 2, Name: "Slow"}
	fast := domain.User{ID: 3, Name: "Fast"}
	f := new(MockFetcher)
	f.On("GetConversation", mock.Anything, int64(1)).Run(func(mock.Arguments) { <-gate }).Return(&slow, nil)
	f.On("ListMessages", mock.Anything, int64(1)).Return([]domain.Message{}, nil)
	f.On("GetConversation", mock.Anything, int64(2)).Return(&fast, nil)
	f.On("ListMessages", mock.Anything, int64(2)).Return([]domain.Message{}, nil)

	h := newHarness(f, &ada)
	h.model.Open(1)
	h.model.Open(2)

	h.model.Apply(h.next(t)) // conversation 2's result
	require.Equal(t, chatview.StateReady, h.model.State())

	close(gate)
	h.model.Apply(h.next(t)) // the superseded conversation 1 result

	assert.Equal(t, int64(2), h.model.ConversationID())
	assert.Equal(t, "Fast", h.model.OtherUser().Name)
}

func TestSendAppendsAndClears(t *testing.T) {
	other := domain.User{ID: 2, Name: "Priya"}
	f := new(MockFetcher)
	f.On("GetConversation", mock.Anything, int64(7)).Return(&other, nil)
	f.On("ListMessages", mock.Anything, int64(7)).Return([]domain.Message{}, nil)
	f.On("SendMessage", mock.Anything, int64(7), "hello").Return(&domain.Message{
		ID: 50, SenderID: ada.ID, Content: "hello",
	}, nil)

	h := newHarness(f, &ada)
	h.model.Open(7)
	h.model.Apply(h.next(t))

	h.model.SetCompose("  ")
	assert.False(t, h.model.Send())

	h.model.SetCompose("hello ")
	require.True(t, h.model.Send())
	assert.False(t, h.model.Send())
	h.model.Apply(h.next(t))

	require.Len(t, h.model.Messages(), 1)
	assert.True(t, h.model.OwnMessage(h.model.Messages()[0]))
	assert.Empty(t, h.model.Compose())
}
