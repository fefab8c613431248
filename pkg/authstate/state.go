// Package authstate owns the client-side authentication lifecycle: one
// store per process holds the last-known principal and credential scheme,
// and every protected call consults it before touching the network.
//
// The store is an explicit state machine:
//
//	resolving → authenticated | unauthenticated
//	authenticated → unauthenticated   (logout, or a 401 from any call)
//	unauthenticated → resolving       (a fresh login attempt)
//
// Views and callers must block on Wait until the store leaves resolving;
// issuing a protected request while the credential scheme is still
// unknown is the bug this package exists to prevent.
package authstate

import (
	"context"
	"sync"
)

// Status is the lifecycle state of the store.
type Status string

const (
	StatusResolving       Status = "resolving"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Scheme mirrors the server's credential schemes.
type Scheme string

const (
	SchemeToken   Scheme = "token"
	SchemeSession Scheme = "session"
)

// Principal is the client-side mirror of the server's resolved identity.
type Principal struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Scheme       string `json:"scheme"`
	Verification string `json:"verification,omitempty"`
}

// TokenStore persists the bearer token across restarts. The token is the
// only auth artifact ever persisted; session-scheme state lives entirely
// in the cookie jar.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// noopTokenStore is used when no persistence is configured.
type noopTokenStore struct{}

func (noopTokenStore) Load() (string, error) { return "", nil }
func (noopTokenStore) Save(string) error     { return nil }
func (noopTokenStore) Clear() error          { return nil }

// Option configures a Store.
type Option func(*Store)

// WithTokenStore sets the bearer token persistence backend.
func WithTokenStore(ts TokenStore) Option {
	return func(s *Store) { s.tokens = ts }
}

// WithSessionEndedHook registers the one-time notice shown when an
// authenticated session is invalidated by a 401.
func WithSessionEndedHook(fn func()) Option {
	return func(s *Store) { s.onSessionEnded = fn }
}

// Store is the single owned cache of the authentication outcome.
// All transitions go through its methods; nothing mutates it from
// arbitrary call sites.
type Store struct {
	mu             sync.Mutex
	status         Status
	principal      *Principal
	scheme         Scheme
	token          string
	epoch          uint64
	resolved       chan struct{}
	tokens         TokenStore
	onSessionEnded func()
}

// New returns a Store in the resolving state, as on application boot.
func New(opts ...Option) *Store {
	s := &Store{
		status:   StatusResolving,
		resolved: make(chan struct{}),
		tokens:   noopTokenStore{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current lifecycle state.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Principal returns a copy of the last-known principal, or nil.
func (s *Store) Principal() *Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return nil
	}
	copy := *s.principal
	return &copy
}

// PersistedToken loads the bearer token saved by a previous process, for
// use by the boot-time resolution probe.
func (s *Store) PersistedToken() string {
	token, err := s.tokens.Load()
	if err != nil {
		return ""
	}
	return token
}

// Wait blocks until the store leaves the resolving state, or the context
// is cancelled. Protected calls must Wait before snapshotting.
func (s *Store) Wait(ctx context.Context) error {
	s.mu.Lock()
	resolved := s.resolved
	s.mu.Unlock()

	select {
	case <-resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the state a protected call should be issued under.
// The epoch ties any later Invalidate back to this exact authentication:
// concurrent calls that all fail with 401 share an epoch, so only the
// first invalidation acts.
func (s *Store) Snapshot() (status Status, principal *Principal, scheme Scheme, token string, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal != nil {
		copy := *s.principal
		principal = &copy
	}
	return s.status, principal, s.scheme, s.token, s.epoch
}

// SetAuthenticated records a successful resolution probe or login.
// Token-scheme credentials are persisted; session-scheme logins clear
// any stale persisted token, since cookie state is never duplicated
// locally.
func (s *Store) SetAuthenticated(principal Principal, scheme Scheme, token string) {
	s.mu.Lock()
	s.principal = &principal
	s.scheme = scheme
	s.token = token
	s.setStatusLocked(StatusAuthenticated)
	s.mu.Unlock()

	if scheme == SchemeToken {
		_ = s.tokens.Save(token)
	} else {
		_ = s.tokens.Clear()
	}
}

// SetUnauthenticated records a failed resolution probe or login.
func (s *Store) SetUnauthenticated() {
	s.mu.Lock()
	s.clearLocked()
	s.setStatusLocked(StatusUnauthenticated)
	s.mu.Unlock()
}

// BeginLogin transitions unauthenticated → resolving for a fresh login
// attempt. Any other starting state is left untouched.
func (s *Store) BeginLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusUnauthenticated {
		return
	}
	s.status = StatusResolving
	s.epoch++
	s.resolved = make(chan struct{})
}

// Logout clears all auth state, including the persisted token.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clearLocked()
	s.setStatusLocked(StatusUnauthenticated)
	s.mu.Unlock()

	_ = s.tokens.Clear()
}

// Invalidate reacts to a 401 observed by a call issued under the given
// epoch. It returns true for exactly one caller per authenticated epoch;
// that caller owns the user-facing notice and redirect. Stale epochs
// (the state already moved on) and unauthenticated states are no-ops.
func (s *Store) Invalidate(epoch uint64) bool {
	s.mu.Lock()
	if s.status != StatusAuthenticated || s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	s.clearLocked()
	s.setStatusLocked(StatusUnauthenticated)
	hook := s.onSessionEnded
	s.mu.Unlock()

	_ = s.tokens.Clear()
	if hook != nil {
		hook()
	}
	return true
}

func (s *Store) clearLocked() {
	s.principal = nil
	s.scheme = ""
	s.token = ""
}

// setStatusLocked moves to a terminal state, releasing any Wait-ers and
// bumping the epoch so snapshots from the previous state go stale.
func (s *Store) setStatusLocked(status Status) {
	s.status = status
	s.epoch++
	select {
	case <-s.resolved:
	default:
		close(s.resolved)
	}
}
