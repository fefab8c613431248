package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// OrderRepository defines the interface for order persistence and the
// aggregation queries behind the dashboards.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListByConsumer(ctx context.Context, consumerID string) ([]*domain.Order, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	MerchantStats(ctx context.Context, merchantID string) (*domain.MerchantStats, error)
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}
