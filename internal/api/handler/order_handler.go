package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/api/metrics"
	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=paid picked_up cancelled"`
}

// Place creates a pending order for the calling consumer.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  placeOrderRequest  true  "Order details"
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), principal.ID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// History lists the calling consumer's orders.
//
// @Summary      Order history
// @Tags         orders
// @Produce      json
// @Success      200  {array}  domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) History(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListConsumerOrders(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Cancel cancels one of the calling consumer's pending or paid orders.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	order, err := h.orders.CancelOrder(c.Request().Context(), principal.ID, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(domain.OrderCancelled)).Inc()
	return c.JSON(http.StatusOK, order)
}

// MerchantOrders lists incoming orders for the calling merchant.
//
// @Summary      Incoming orders
// @Tags         merchant
// @Produce      json
// @Success      200  {array}  domain.Order
// @Failure      403  {object}  map[string]string
// @Router       /merchant/orders [get]
func (h *OrderHandler) MerchantOrders(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListMerchantOrders(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus advances one of the calling merchant's orders.
//
// @Summary      Update order status
// @Tags         merchant
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Order ID"
// @Param        body  body  orderStatusRequest  true  "Target status"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /merchant/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateOrderStatus(c.Request().Context(), principal.ID, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	metrics.OrderTransitionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, order)
}

// MerchantDashboard returns the calling merchant's aggregates.
//
// @Summary      Merchant dashboard
// @Tags         merchant
// @Produce      json
// @Success      200  {object}  domain.MerchantStats
// @Failure      403  {object}  map[string]string
// @Router       /merchant/dashboard [get]
func (h *OrderHandler) MerchantDashboard(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	stats, err := h.orders.MerchantDashboard(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
