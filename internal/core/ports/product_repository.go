package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// ProductRepository defines the interface for product persistence.
// Mutations are scoped by merchant ID so a merchant can never touch
// another merchant's listings.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, merchantID, productID string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListAvailable(ctx context.Context, category string) ([]*domain.Product, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Product, error)
	// AdjustStock atomically changes stock by delta (negative to reserve).
	// Returns domain.ErrInsufficientStock when the decrement would go below zero.
	AdjustStock(ctx context.Context, productID string, delta int) error
}
