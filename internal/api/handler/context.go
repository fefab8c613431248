package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/api/middleware"
	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Authenticate
// middleware and fast-fails before any service call. A missing principal
// means a route was registered without the middleware — treat it as
// unauthenticated rather than rendering protected data.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil || principal.Role == "" {
		return nil, domain.ErrUnauthenticated
	}
	return principal, nil
}
