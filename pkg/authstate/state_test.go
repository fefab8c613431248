package authstate

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_StartsResolving(t *testing.T) {
	s := New()

	if got := s.Status(); got != StatusResolving {
		t.Fatalf("expected resolving, got %s", got)
	}
	if p := s.Principal(); p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
}

func TestStore_WaitBlocksUntilResolved(t *testing.T) {
	s := New()

	done := make(chan error, 1)
	go func() {
		done <- s.Wait(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before resolution")
	case <-time.After(20 * time.Millisecond):
	}

	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok")

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after SetAuthenticated")
	}
}

func TestStore_WaitHonoursContext(t *testing.T) {
	s := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Wait(ctx); err == nil {
		t.Fatal("expected context error while still resolving")
	}
}

func TestStore_SetAuthenticated(t *testing.T) {
	s := New()
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "merchant", Verification: "verified"}, SchemeToken, "tok-123")

	if got := s.Status(); got != StatusAuthenticated {
		t.Fatalf("expected authenticated, got %s", got)
	}

	status, p, scheme, token, _ := s.Snapshot()
	if status != StatusAuthenticated {
		t.Fatalf("expected authenticated snapshot, got %s", status)
	}
	if p == nil || p.ID != "acc-1" {
		t.Fatalf("unexpected principal %+v", p)
	}
	if scheme != SchemeToken || token != "tok-123" {
		t.Fatalf("unexpected scheme=%s token=%s", scheme, token)
	}
}

func TestStore_PrincipalIsACopy(t *testing.T) {
	s := New()
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeSession, "")

	p := s.Principal()
	p.ID = "tampered"

	if got := s.Principal().ID; got != "acc-1" {
		t.Fatalf("stored principal mutated to %q", got)
	}
}

func TestStore_BeginLoginOnlyFromUnauthenticated(t *testing.T) {
	s := New()
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok")

	s.BeginLogin()
	if got := s.Status(); got != StatusAuthenticated {
		t.Fatalf("BeginLogin moved an authenticated store to %s", got)
	}

	s.Logout()
	s.BeginLogin()
	if got := s.Status(); got != StatusResolving {
		t.Fatalf("expected resolving after BeginLogin, got %s", got)
	}
}

func TestStore_InvalidateExactlyOnce(t *testing.T) {
	var notices atomic.Int32
	s := New(WithSessionEndedHook(func() { notices.Add(1) }))
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok")

	_, _, _, _, epoch := s.Snapshot()

	const callers = 8
	var owners atomic.Int32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if s.Invalidate(epoch) {
				owners.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := owners.Load(); got != 1 {
		t.Fatalf("expected exactly one invalidation owner, got %d", got)
	}
	if got := notices.Load(); got != 1 {
		t.Fatalf("expected exactly one session-ended notice, got %d", got)
	}
	if got := s.Status(); got != StatusUnauthenticated {
		t.Fatalf("expected unauthenticated after invalidation, got %s", got)
	}
}

func TestStore_InvalidateIgnoresStaleEpoch(t *testing.T) {
	var notices atomic.Int32
	s := New(WithSessionEndedHook(func() { notices.Add(1) }))

	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok-1")
	_, _, _, _, stale := s.Snapshot()

	// Re-authentication happens before the stale 401 lands.
	s.Logout()
	s.BeginLogin()
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok-2")

	if s.Invalidate(stale) {
		t.Fatal("stale epoch must not invalidate the new authentication")
	}
	if got := s.Status(); got != StatusAuthenticated {
		t.Fatalf("expected still authenticated, got %s", got)
	}
	if got := notices.Load(); got != 0 {
		t.Fatalf("expected no notice for a stale epoch, got %d", got)
	}
}

func TestStore_TokenPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token")
	tokens := NewFileTokenStore(path)

	s := New(WithTokenStore(tokens))
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeToken, "tok-persist")

	// A fresh store in a new process sees the saved token.
	s2 := New(WithTokenStore(NewFileTokenStore(path)))
	if got := s2.PersistedToken(); got != "tok-persist" {
		t.Fatalf("expected persisted token, got %q", got)
	}

	s.Logout()
	if got := s2.PersistedToken(); got != "" {
		t.Fatalf("expected token cleared on logout, got %q", got)
	}
}

func TestStore_SessionLoginClearsPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	tokens := NewFileTokenStore(path)
	if err := tokens.Save("stale"); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	s := New(WithTokenStore(tokens))
	s.SetAuthenticated(Principal{ID: "acc-1", Role: "consumer"}, SchemeSession, "")

	if got := s.PersistedToken(); got != "" {
		t.Fatalf("expected stale token cleared on session login, got %q", got)
	}
}
