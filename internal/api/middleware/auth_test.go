package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// stubResolver records the inputs Authenticate hands to the resolver and
// returns a canned outcome.
type stubResolver struct {
	principal *domain.Principal
	err       error

	gotAuthorization string
	gotSessionID     string
	gotAllowedRoles  []domain.Role
}

func (s *stubResolver) Resolve(_ context.Context, authorization, sessionID string, allowedRoles ...domain.Role) (*domain.Principal, error) {
	s.gotAuthorization = authorization
	s.gotSessionID = sessionID
	s.gotAllowedRoles = allowedRoles
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

func runAuthenticate(t *testing.T, resolver *stubResolver, mutate func(*http.Request), roles ...domain.Role) (*domain.Principal, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var injected *domain.Principal
	handler := Authenticate(resolver, roles...)(func(c echo.Context) error {
		injected = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})
	return injected, handler(c)
}

func TestAuthenticate_InjectsPrincipal(t *testing.T) {
	resolver := &stubResolver{
		principal: &domain.Principal{ID: "acc-1", Role: domain.RoleConsumer, Scheme: domain.SchemeToken},
	}

	injected, err := runAuthenticate(t, resolver, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer some-token")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if injected == nil || injected.ID != "acc-1" {
		t.Fatalf("principal not injected: %+v", injected)
	}
	if resolver.gotAuthorization != "Bearer some-token" {
		t.Fatalf("authorization not forwarded: %q", resolver.gotAuthorization)
	}
}

func TestAuthenticate_ForwardsSessionCookie(t *testing.T) {
	resolver := &stubResolver{
		principal: &domain.Principal{ID: "acc-2", Role: domain.RoleConsumer, Scheme: domain.SchemeSession},
	}

	_, err := runAuthenticate(t, resolver, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-abc"})
	}, domain.RoleConsumer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver.gotSessionID != "sess-abc" {
		t.Fatalf("session ID not forwarded: %q", resolver.gotSessionID)
	}
	if len(resolver.gotAllowedRoles) != 1 || resolver.gotAllowedRoles[0] != domain.RoleConsumer {
		t.Fatalf("allow-list not forwarded: %v", resolver.gotAllowedRoles)
	}
}

func TestAuthenticate_ResolverFailureShortCircuits(t *testing.T) {
	resolver := &stubResolver{err: domain.ErrUnauthenticated}

	injected, err := runAuthenticate(t, resolver, nil)
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if injected != nil {
		t.Fatalf("handler ran despite failed resolution: %+v", injected)
	}
}

func TestPrincipalFrom_MissingMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if p := PrincipalFrom(c); p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
}
