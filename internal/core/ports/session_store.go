package ports

import "context"

// SessionStore persists server-side sessions for the cookie scheme.
// Sessions map an opaque session ID to an account ID and expire on their
// own; the store never interprets the account beyond its identifier.
type SessionStore interface {
	// Create opens a session for the account and returns its opaque ID.
	Create(ctx context.Context, accountID string) (string, error)
	// Get returns the account ID behind a session, or
	// domain.ErrSessionNotFound when the session is missing or expired.
	Get(ctx context.Context, sessionID string) (string, error)
	// Delete terminates a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
