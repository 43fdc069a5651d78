package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// ListConversations returns the current user's conversations in the order
// the server chose (most recent first); callers do not re-sort.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	if err := c.do(ctx, http.MethodGet, "/messages/conversations", nil, &convs); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// ListAvailableUsers returns users the current user has no conversation with.
func (c *Client) ListAvailableUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "/messages/available-users", nil, &users); err != nil {
		return nil, fmt.Errorf("list available users: %w", err)
	}
	return users, nil
}

type conversationEnvelope struct {
	OtherUser domain.User `json:"other_user"`
}

// GetConversation resolves a single conversation to its counterpart user,
// used by the standalone chat view's header.
func (c *Client) GetConversation(ctx context.Context, id int64) (*domain.User, error) {
	var env conversationEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/conversations/%d", id), nil, &env); err != nil {
		return nil, fmt.Errorf("get conversation %d: %w", id, err)
	}
	return &env.OtherUser, nil
}

// ListMessages returns the ordered history for a conversation, oldest first.
func (c *Client) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	var msgs []domain.Message
	path := fmt.Sprintf("/messages/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("list messages for conversation %d: %w", conversationID, err)
	}
	return msgs, nil
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage posts content to a conversation and returns the created
// message with its server-assigned id and timestamp.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, content string) (*domain.Message, error) {
	var msg domain.Message
	path := fmt.Sprintf("/messages/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodPost, path, sendMessageRequest{Content: content}, &msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

type startConversationRequest struct {
	OtherUserID int64 `json:"other_user_id"`
}

// StartConversation creates (or returns the existing) conversation with
// another user.
func (c *Client) StartConversation(ctx context.Context, otherUserID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := c.do(ctx, http.MethodPost, "/messages/conversations", startConversationRequest{OtherUserID: otherUserID}, &conv); err != nil {
		return nil, fmt.Errorf("start conversation with user %d: %w", otherUserID, err)
	}
	return &conv, nil
}
