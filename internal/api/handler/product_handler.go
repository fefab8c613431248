package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nomi-id/nomi-api/internal/core/ports"
)

type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productRequest struct {
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Description   string `json:"description,omitempty"`
	OriginalPrice int64  `json:"original_price" validate:"required,gt=0"`
	DiscountPrice int64  `json:"discount_price" validate:"required,gt=0"`
	Stock         int    `json:"stock" validate:"gte=0"`
	ExpiresAt     string `json:"expires_at" validate:"required"`
}

func (r *productRequest) input() ports.ProductInput {
	return ports.ProductInput{
		Name:          r.Name,
		Category:      r.Category,
		Description:   r.Description,
		OriginalPrice: r.OriginalPrice,
		DiscountPrice: r.DiscountPrice,
		Stock:         r.Stock,
		ExpiresAt:     r.ExpiresAt,
	}
}

// ListStorefront lists available discounted products for the public
// storefront; no authentication required.
//
// @Summary      Browse available products
// @Tags         storefront
// @Produce      json
// @Param        category  query  string  false  "Filter by category"
// @Success      200  {array}  domain.Product
// @Router       /products [get]
func (h *ProductHandler) ListStorefront(c echo.Context) error {
	products, err := h.catalog.ListAvailable(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// ListMine lists the calling merchant's own products, available or not.
//
// @Summary      List own products
// @Tags         merchant
// @Produce      json
// @Success      200  {array}  domain.Product
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /merchant/products [get]
func (h *ProductHandler) ListMine(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	products, err := h.catalog.ListMerchantProducts(c.Request().Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Create adds a new listing for the calling merchant.
//
// @Summary      Create a product
// @Tags         merchant
// @Accept       json
// @Produce      json
// @Param        body  body  productRequest  true  "Product details"
// @Success      201  {object}  domain.Product
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /merchant/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.CreateProduct(c.Request().Context(), principal.ID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

// Update replaces the merchant-editable fields of a listing.
//
// @Summary      Update a product
// @Tags         merchant
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Product ID"
// @Param        body  body  productRequest  true  "Product details"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /merchant/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.catalog.UpdateProduct(c.Request().Context(), principal.ID, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes a listing owned by the calling merchant.
//
// @Summary      Delete a product
// @Tags         merchant
// @Param        id  path  string  true  "Product ID"
// @Success      204  "deleted"
// @Failure      404  {object}  map[string]string
// @Router       /merchant/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), principal.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
