// Package session owns the authenticated identity: created on login,
// restored from the local store on startup, torn down on logout or expiry.
// Nothing else in the client holds the token.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// Session is an immutable snapshot of the logged-in identity.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Manager drives the session lifecycle against the auth endpoints and the
// local store.
type Manager struct {
	anon  *api.Client
	store *Store
	log   *logrus.Logger
}

func NewManager(anon *api.Client, store *Store, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Manager{anon: anon, store: store, log: log}
}

// Login authenticates and persists the resulting session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := m.anon.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return m.adopt(ctx, res)
}

// Register creates an account and persists the resulting session.
func (m *Manager) Register(ctx context.Context, creds api.Credentials) (*Session, error) {
	res, err := m.anon.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.adopt(ctx, res)
}

func (m *Manager) adopt(ctx context.Context, res *api.AuthResult) (*Session, error) {
	sess := &Session{
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: tokenExpiry(res.Token),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		// A failed save only costs the next restart a re-login.
		m.log.WithError(err).Warn("persisting session failed")
	}
	return sess, nil
}

// Restore loads the persisted session, discarding it when expired.
// Returns domain.ErrUnauthenticated when there is nothing usable.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	sess, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}
	if sess.Expired(time.Now()) {
		if err := m.store.Clear(ctx); err != nil {
			m.log.WithError(err).Warn("clearing expired session failed")
		}
		return nil, fmt.Errorf("restore: %w", domain.ErrSessionExpired)
	}
	return sess, nil
}

// Logout tears the session down locally. The token is simply forgotten;
// the server side expires it on its own schedule.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// ClientFor returns an API client authenticated as sess, or the anonymous
// client when sess is nil.
func (m *Manager) ClientFor(sess *Session) *api.Client {
	if sess == nil {
		return m.anon
	}
	return m.anon.WithToken(sess.Token)
}
