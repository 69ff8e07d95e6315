// Package session remembers where a user was in the module hierarchy so the
// viewer can reopen it with --resume.
//
// A session is created when the viewer starts and updated with the wire tag
// of every committed snapshot. Sessions are scoped by backend server and
// route prefix: resuming against a different backend never reopens a tag
// that backend has not served.
//
// # Usage
//
//	store, err := session.NewFileStore("")  // ~/.config/visunn/sessions/
//	sess := session.New(server, prefix, session.DefaultTTL)
//	sess.Visit("root;encoder")
//	store.Set(ctx, sess)
//
//	last, err := store.Latest(ctx, server, prefix)
//	if last != nil {
//	    // navigate to last.Tag
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/visunn/pkg/tag"
)

// DefaultTTL is how long an untouched session can be resumed.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// Session records the last module viewed against one backend.
type Session struct {
	ID        string    `json:"id"`
	Server    string    `json:"server"`
	Prefix    string    `json:"prefix"`
	Tag       string    `json:"tag"` // wire form
	Visits    int       `json:"visits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session positioned at the root module.
func New(server, prefix string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Server:    server,
		Prefix:    prefix,
		Tag:       tag.RootWire,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Visit records wire as the current module and extends the expiry by the
// session's original lifetime.
func (s *Session) Visit(wire string) {
	ttl := s.ExpiresAt.Sub(s.UpdatedAt)
	now := time.Now()
	s.Tag = wire
	s.Visits++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Canonical returns the session's tag in canonical form, falling back to the
// root if the stored wire tag no longer decodes.
func (s *Session) Canonical() tag.Tag {
	t, err := tag.Decode(s.Tag)
	if err != nil {
		return tag.Root
	}
	return t
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Matches reports whether the session belongs to server and prefix.
func (s *Session) Matches(server, prefix string) bool {
	return s.Server == server && s.Prefix == prefix
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Latest returns the most recently updated live session for server and
	// prefix, or nil, nil if there is none.
	Latest(ctx context.Context, server, prefix string) (*Session, error)

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) (int, error)
}
