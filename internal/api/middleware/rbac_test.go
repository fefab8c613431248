package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

func runGate(t *testing.T, principal *domain.Principal, mw echo.MiddlewareFunc) (bool, error) {
	t.Helper()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if principal != nil {
		c.Set(principalKey, principal)
	}

	var reached bool
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	return reached, handler(c)
}

func TestRequireRoles(t *testing.T) {
	consumer := &domain.Principal{ID: "acc-1", Role: domain.RoleConsumer, Scheme: domain.SchemeToken}
	admin := &domain.Principal{ID: "acc-2", Role: domain.RoleAdministrator, Scheme: domain.SchemeToken}

	tests := []struct {
		name      string
		principal *domain.Principal
		mw        echo.MiddlewareFunc
		wantErr   error
	}{
		{"matching role passes", consumer, RequireRoles(domain.RoleConsumer), nil},
		{"missing principal is unauthenticated", nil, RequireRoles(domain.RoleConsumer), domain.ErrUnauthenticated},
		{"wrong role is forbidden", admin, RequireRoles(domain.RoleConsumer), domain.ErrForbiddenRole},
		{"empty role list accepts any principal", admin, RequireRoles(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached, err := runGate(t, tt.principal, tt.mw)
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if wantReached := tt.wantErr == nil; reached != wantReached {
				t.Fatalf("handler reached = %v, want %v", reached, wantReached)
			}
		})
	}
}

func TestRequireVerifiedMerchant(t *testing.T) {
	tests := []struct {
		name      string
		principal *domain.Principal
		wantErr   error
	}{
		{
			"verified merchant passes",
			&domain.Principal{ID: "m-1", Role: domain.RoleMerchant, Scheme: domain.SchemeSession, Verification: domain.VerificationVerified},
			nil,
		},
		{
			"pending merchant is forbidden-unverified",
			&domain.Principal{ID: "m-2", Role: domain.RoleMerchant, Scheme: domain.SchemeToken, Verification: domain.VerificationPending},
			domain.ErrForbiddenUnverified,
		},
		{
			"consumer is forbidden-role before any verification check",
			&domain.Principal{ID: "c-1", Role: domain.RoleConsumer, Scheme: domain.SchemeToken},
			domain.ErrForbiddenRole,
		},
		{
			"missing principal is unauthenticated",
			nil,
			domain.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached, err := runGate(t, tt.principal, RequireVerifiedMerchant())
			if err != tt.wantErr {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if wantReached := tt.wantErr == nil; reached != wantReached {
				t.Fatalf("handler reached = %v, want %v", reached, wantReached)
			}
		})
	}
}
