package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/api/metrics"
	"github.com/nomi-id/nomi-api/internal/api/middleware"
	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Name      string `json:"name" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=consumer merchant"`
	StoreName string `json:"store_name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Mode selects the credential scheme: "token" for API-style callers,
	// "session" for browser flows. Defaults to token.
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=token session"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
}

type meResponse struct {
	Principal *domain.Principal `json:"principal"`
	Account   *domain.Account   `json:"account"`
}

// Register creates a new consumer or merchant account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		StoreName: req.StoreName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Account: account})
}

// Login authenticates an account and issues either a bearer token or a
// session cookie, depending on the requested mode.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	scheme := domain.SchemeToken
	if req.Mode == string(domain.SchemeSession) {
		scheme = domain.SchemeSession
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, scheme)
	if err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues(string(scheme)).Inc()

	if scheme == domain.SchemeSession {
		c.SetCookie(h.sessionCookie(result.SessionID, h.sessionTTL))
		return c.JSON(http.StatusOK, authResponse{Account: result.Account})
	}
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, Account: result.Account})
}

// Logout terminates the caller's session, if any, and expires the cookie.
// Token callers simply discard their token; the endpoint still answers
// 204 so both schemes share one logout flow.
//
// @Summary      Logout
// @Tags         auth
// @Success      204  "logged out"
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}

	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
		c.SetCookie(h.sessionCookie("", -time.Hour))
	}
	return c.NoContent(http.StatusNoContent)
}

// Me is the resolution probe: it reports the caller's principal and
// account as resolved for this request. Clients call it on boot to leave
// the resolving state.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Account(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Principal: principal, Account: account})
}

// MerchantStatus reports the calling merchant's verification state. It is
// deliberately not behind the verification gate: pending merchants poll it
// from the holding page.
//
// @Summary      Merchant verification status
// @Tags         merchant
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /merchant/status [get]
func (h *AuthHandler) MerchantStatus(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Account(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"verification": string(account.Verification),
		"store_name":   account.StoreName,
	})
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
