package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// Reason is the machine-readable discriminator clients branch on; it is
// only set for authentication/authorization failures.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// authMessages holds the localized human-readable texts for the auth
// failure reasons, keyed by reason then locale. Indonesian is the
// platform default; English is served on an explicit Accept-Language.
var authMessages = map[string]map[string]string{
	domain.ErrUnauthenticated.Error(): {
		"id": "sesi berakhir, silakan masuk kembali",
		"en": "not authenticated, please sign in",
	},
	domain.ErrForbiddenRole.Error(): {
		"id": "akun Anda tidak memiliki akses ke halaman ini",
		"en": "your account does not have access to this resource",
	},
	domain.ErrForbiddenUnverified.Error(): {
		"id": "toko Anda masih menunggu verifikasi",
		"en": "your store is still awaiting verification",
	},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the auth policy failures to 401/403 with their machine reason.
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if code, reason := resolveAuthError(err); reason != "" {
			_ = c.JSON(code, errorResponse{Error: localize(reason, c), Reason: reason})
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// resolveAuthError maps the three auth policy failures. 401 means the
// caller has no usable credential; 403 means the credential is fine but
// the role or verification state is not.
func resolveAuthError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden, domain.ErrForbiddenRole.Error()
	case errors.Is(err, domain.ErrForbiddenUnverified):
		return http.StatusForbidden, domain.ErrForbiddenUnverified.Error()
	}
	return 0, ""
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict, "account already exists"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrProductExpired):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidPricing):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidOrderTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidVerification):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrNotMerchant):
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// localize picks the message for a reason in the request's locale.
// Anything that is not explicitly English gets Indonesian.
func localize(reason string, c echo.Context) string {
	locale := "id"
	if lang := c.Request().Header.Get("Accept-Language"); strings.HasPrefix(strings.ToLower(lang), "en") {
		locale = "en"
	}
	if msgs, ok := authMessages[reason]; ok {
		return msgs[locale]
	}
	return reason
}
