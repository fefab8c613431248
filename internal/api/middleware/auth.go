package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/api/metrics"
	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the session ID for the
// cookie-based scheme.
const SessionCookieName = "nomi_session"

// principalKey is the echo context key the resolved principal is stored
// under. Handlers read it back through PrincipalFrom.
const principalKey = "principal"

// Authenticate runs the credential resolver on every request and injects
// the resolved Principal into the echo context. allowedRoles narrows the
// session branch of resolution; role enforcement proper happens in the
// gate middleware that follows.
//
// Resolution always completes before any gate or handler runs, so every
// downstream decision sees a principal resolved for this exact request.
func Authenticate(resolver ports.CredentialResolver, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authorization := c.Request().Header.Get("Authorization")

			var sessionID string
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionID = cookie.Value
			}

			scheme := "none"
			switch {
			case authorization != "":
				scheme = string(domain.SchemeToken)
			case sessionID != "":
				scheme = string(domain.SchemeSession)
			}

			principal, err := resolver.Resolve(c.Request().Context(), authorization, sessionID, allowedRoles...)
			if err != nil {
				metrics.AuthResolutionsTotal.WithLabelValues(scheme, "fail").Inc()
				return err
			}
			metrics.AuthResolutionsTotal.WithLabelValues(scheme, "ok").Inc()

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal injected by Authenticate, or nil
// when the middleware did not run.
func PrincipalFrom(c echo.Context) *domain.Principal {
	principal, _ := c.Get(principalKey).(*domain.Principal)
	return principal
}
