package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

func mintToken(t *testing.T, secret, subject string, role domain.Role, verification domain.VerificationStatus, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := AccessClaims{
		Role:         string(role),
		Verification: string(verification),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// sessionFor seeds an account and opens a session for it, returning both.
func sessionFor(t *testing.T, repo *stubAccountRepo, sessions *stubSessionStore, role domain.Role, verification domain.VerificationStatus) (*domain.Account, string) {
	t.Helper()
	account := seedAccount(t, repo, string(role)+"@example.com", "rahasia123", role, verification)
	sessionID, err := sessions.Create(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return account, sessionID
}

func TestResolver_ValidBearer(t *testing.T) {
	r := NewResolver(newStubAccountRepo(), newStubSessionStore(), "secret")
	token := mintToken(t, "secret", "acc-1", domain.RoleMerchant, domain.VerificationVerified, time.Hour)

	p, err := r.Resolve(context.Background(), "Bearer "+token, "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.Scheme != domain.SchemeToken {
		t.Fatalf("scheme = %s, want token", p.Scheme)
	}
	if p.ID != "acc-1" || p.Role != domain.RoleMerchant {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if p.Verification != domain.VerificationVerified {
		t.Fatalf("verification = %s", p.Verification)
	}
}

func TestResolver_BearerWinsOverSession(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	_, sessionID := sessionFor(t, repo, sessions, domain.RoleConsumer, "")
	r := NewResolver(repo, sessions, "secret")
	token := mintToken(t, "secret", "acc-token", domain.RoleConsumer, "", time.Hour)

	p, err := r.Resolve(context.Background(), "Bearer "+token, sessionID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.Scheme != domain.SchemeToken {
		t.Fatalf("scheme = %s, want token", p.Scheme)
	}
	if p.ID != "acc-token" {
		t.Fatalf("resolved the cookie identity, not the bearer one: %+v", p)
	}
}

func TestResolver_ExpiredBearerDoesNotFallBackToSession(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	_, sessionID := sessionFor(t, repo, sessions, domain.RoleConsumer, "")
	r := NewResolver(repo, sessions, "secret")
	expired := mintToken(t, "secret", "acc-token", domain.RoleConsumer, "", -time.Minute)

	_, err := r.Resolve(context.Background(), "Bearer "+expired, sessionID)
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_MalformedBearerIsTerminal(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	_, sessionID := sessionFor(t, repo, sessions, domain.RoleConsumer, "")
	r := NewResolver(repo, sessions, "secret")

	_, err := r.Resolve(context.Background(), "Token abc", sessionID)
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_WrongSecret(t *testing.T) {
	r := NewResolver(newStubAccountRepo(), newStubSessionStore(), "secret")
	token := mintToken(t, "other-secret", "acc-1", domain.RoleConsumer, "", time.Hour)

	_, err := r.Resolve(context.Background(), "Bearer "+token, "")
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_SessionCookie(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	account, sessionID := sessionFor(t, repo, sessions, domain.RoleMerchant, domain.VerificationPending)
	r := NewResolver(repo, sessions, "secret")

	p, err := r.Resolve(context.Background(), "", sessionID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.Scheme != domain.SchemeSession {
		t.Fatalf("scheme = %s, want session", p.Scheme)
	}
	if p.ID != account.ID || p.Role != domain.RoleMerchant {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if p.Verification != domain.VerificationPending {
		t.Fatalf("verification not read from the account: %+v", p)
	}
}

func TestResolver_SessionReadsVerificationFresh(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	account, sessionID := sessionFor(t, repo, sessions, domain.RoleMerchant, domain.VerificationPending)
	r := NewResolver(repo, sessions, "secret")

	if _, err := repo.UpdateVerification(context.Background(), account.ID, domain.VerificationVerified); err != nil {
		t.Fatalf("update verification: %v", err)
	}

	p, err := r.Resolve(context.Background(), "", sessionID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if p.Verification != domain.VerificationVerified {
		t.Fatalf("stale verification %s; approval must take effect on the next request", p.Verification)
	}
}

func TestResolver_SessionAllowListMismatch(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	_, sessionID := sessionFor(t, repo, sessions, domain.RoleConsumer, "")
	r := NewResolver(repo, sessions, "secret")

	_, err := r.Resolve(context.Background(), "", sessionID, domain.RoleMerchant)
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_SessionNeverResolvesAdministrator(t *testing.T) {
	repo := newStubAccountRepo()
	sessions := newStubSessionStore()
	_, sessionID := sessionFor(t, repo, sessions, domain.RoleAdministrator, "")
	r := NewResolver(repo, sessions, "secret")

	_, err := r.Resolve(context.Background(), "", sessionID, domain.RoleAdministrator)
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_ExpiredSession(t *testing.T) {
	r := NewResolver(newStubAccountRepo(), newStubSessionStore(), "secret")

	_, err := r.Resolve(context.Background(), "", "sess-gone")
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolver_NoCredentials(t *testing.T) {
	r := NewResolver(newStubAccountRepo(), newStubSessionStore(), "secret")

	_, err := r.Resolve(context.Background(), "", "")
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
