package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// ProductInput carries the merchant-editable fields of a listing.
type ProductInput struct {
	Name          string
	Category      string
	Description   string
	OriginalPrice int64
	DiscountPrice int64
	Stock         int
	ExpiresAt     string // RFC 3339
}

type CatalogService interface {
	CreateProduct(ctx context.Context, merchantID string, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, merchantID, productID string, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, merchantID, productID string) error
	ListAvailable(ctx context.Context, category string) ([]*domain.Product, error)
	ListMerchantProducts(ctx context.Context, merchantID string) ([]*domain.Product, error)
}
