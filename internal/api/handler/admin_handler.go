package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

type AdminHandler struct {
	admin ports.AdminService
}

func NewAdminHandler(admin ports.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type verificationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

// ListAccounts lists platform accounts, optionally filtered by role.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        role  query  string  false  "Filter by role"
// @Success      200  {array}  domain.Account
// @Failure      403  {object}  map[string]string
// @Router       /admin/accounts [get]
func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.admin.ListAccounts(c.Request().Context(), domain.Role(c.QueryParam("role")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// SetVerification records a verification decision for a merchant.
//
// @Summary      Set merchant verification
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Merchant account ID"
// @Param        body  body  verificationRequest  true  "Decision"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /admin/merchants/{id}/verification [patch]
func (h *AdminHandler) SetVerification(c echo.Context) error {
	var req verificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.admin.SetMerchantVerification(c.Request().Context(), c.Param("id"), domain.VerificationStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// PlatformDashboard returns marketplace-wide aggregates.
//
// @Summary      Platform dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.PlatformStats
// @Failure      403  {object}  map[string]string
// @Router       /admin/dashboard [get]
func (h *AdminHandler) PlatformDashboard(c echo.Context) error {
	stats, err := h.admin.PlatformDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
