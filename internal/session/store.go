package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// Store persists at most one session in a local SQLite database so a
// restart resumes where the user left off. Conversations and messages are
// never written here.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the session database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_json TEXT NOT NULL,
		expires_at DATETIME,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	var expires any
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (id, token, user_json, expires_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token,
		   user_json = excluded.user_json, expires_at = excluded.expires_at,
		   saved_at = CURRENT_TIMESTAMP`,
		sess.Token, string(userJSON), expires)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored session, or nil when none exists.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	var (
		token    string
		userJSON string
		expires  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_json, expires_at FROM session WHERE id = 1`).
		Scan(&token, &userJSON, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("decode stored user: %w", err)
	}
	sess := &Session{User: user, Token: token}
	if expires.Valid && expires.String != "" {
		if t, err := time.Parse(time.RFC3339, expires.String); err == nil {
			sess.ExpiresAt = t
		}
	}
	return sess, nil
}

// Clear removes the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
