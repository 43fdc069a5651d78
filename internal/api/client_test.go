package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL+"/api", 5*time.Second, nil)
}

func TestListConversations(t *testing.T) {
	var gotAuth, gotReqID string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/messages/conversations", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]domain.Conversation{
			{ID: 42, OtherUserName: "Priya Sharma", UnreadCount: 2},
		})
	})).WithToken("tok-123")

	convs, err := c.ListConversations(context.Background())
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(42), convs[0].ID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestSendMessage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/messages/conversations/7/messages", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello", body["content"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Message{ID: 99, SenderID: 1, Content: "hello"})
	})).WithToken("tok")

	msg, err := c.SendMessage(context.Background(), 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(99), msg.ID)
	assert.Equal(t, "hello", msg.Content)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"Unauthorized", http.StatusUnauthorized, domain.ErrUnauthenticated},
		{"Forbidden", http.StatusForbidden, domain.ErrForbidden},
		{"NotFound", http.StatusNotFound, domain.ErrNotFound},
		{"BadRequest", http.StatusBadRequest, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))
			_, err := c.ListProjects(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestErrorMessageKeptVerbatim(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "You have already applied to this project"})
	})).WithToken("tok")

	err := c.ApplyToProject(context.Background(), 3, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You have already applied to this project")
}

func TestGetConversationEnvelope(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/messages/conversations/5", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"other_user": map[string]any{"id": 8, "name": "Rahul Verma", "role": "alumni"},
		})
	})).WithToken("tok")

	u, err := c.GetConversation(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.ID)
	assert.Equal(t, "Rahul Verma", u.Name)
}

func TestGetUserProfileNormalizesStringLists(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":     4,
			"name":   "Ada",
			"role":   "alumni",
			"skills": `[{"name":"Go","type":"technical","proficiency":"expert"}]`,
		})
	})).WithToken("tok")

	p, err := c.GetUserProfile(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, p.Skills, 1)
	assert.Equal(t, "Go", p.Skills[0].Name)
}

func TestUnreachableBackend(t *testing.T) {
	c := api.New("http://127.0.0.1:1/api", time.Second, nil)
	_, err := c.ListBlogPosts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestProfilePictureURL(t *testing.T) {
	c := api.New("http://example.com/api", time.Second, nil)
	assert.Equal(t, "http://example.com/api/profile/picture/a.png", c.ProfilePictureURL("a.png"))
}
