// Package api implements the typed JSON-over-HTTP client for the
// AlumnConnect backend. Every call takes a context, sends the bearer token
// when one is attached, and maps error statuses onto the domain sentinels.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     *logrus.Logger
}

// New creates an unauthenticated client. baseURL includes the /api prefix.
func New(baseURL string, timeout time.Duration, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// WithToken returns a copy of the client that authenticates with token.
// The receiver is left untouched so an anonymous client can be shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Authenticated reports whether a bearer token is attached.
func (c *Client) Authenticated() bool { return c.token != "" }

// ProfilePictureURL builds the public URL for an avatar asset.
func (c *Client) ProfilePictureURL(filename string) string {
	return c.baseURL + "/profile/picture/" + filename
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e errorResponse) text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// Error is a rejection from the backend, keeping the server's message
// verbatim. It unwraps to the domain sentinel matching its status so
// errors.Is keeps working.
type Error struct {
	Status   int
	Message  string
	sentinel error
}

// NewError builds the typed error for a status code and server message.
func NewError(status int, message string) *Error {
	e := &Error{Status: status, Message: message, sentinel: domain.ErrInvalidInput}
	switch status {
	case http.StatusUnauthorized:
		e.sentinel = domain.ErrUnauthenticated
	case http.StatusForbidden:
		e.sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		e.sentinel = domain.ErrNotFound
	}
	return e
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

func (e *Error) Unwrap() error { return e.sentinel }

// ServerMessage extracts the backend's own wording from err, falling back
// to err.Error() for transport and client-side failures.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// do performs a single request. body is JSON-encoded when non-nil and the
// response is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).
			WithError(err).Warn("request failed")
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"error":  body.text(),
	}).Warn("request rejected")

	return NewError(resp.StatusCode, body.text())
}
