package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, consumerID, productID string, quantity int) (*domain.Order, error)
	ListConsumerOrders(ctx context.Context, consumerID string) ([]*domain.Order, error)
	CancelOrder(ctx context.Context, consumerID, orderID string) (*domain.Order, error)
	ListMerchantOrders(ctx context.Context, merchantID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, merchantID, orderID string, next domain.OrderStatus) (*domain.Order, error)
	MerchantDashboard(ctx context.Context, merchantID string) (*domain.MerchantStats, error)
}
