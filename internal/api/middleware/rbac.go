package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/api/metrics"
	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/service"
)

// RequireRoles enforces the authorization gate for routes open to the
// given roles. An empty role list accepts any authenticated principal.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return gate(roles, false)
}

// RequireVerifiedMerchant enforces the merchant role plus the merchant
// verification gate. Unverified merchants are rejected with the
// forbidden-unverified reason so the client can route them to the
// pending-verification page instead of a permissions error.
func RequireVerifiedMerchant() echo.MiddlewareFunc {
	return gate([]domain.Role{domain.RoleMerchant}, true)
}

func gate(roles []domain.Role, requireVerifiedMerchant bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.Authorize(PrincipalFrom(c), roles, requireVerifiedMerchant); err != nil {
				if err == domain.ErrForbiddenRole || err == domain.ErrForbiddenUnverified {
					metrics.GateRejectionsTotal.WithLabelValues(err.Error()).Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
