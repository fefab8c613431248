package service

import (
	"context"
	"time"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// OrderService implements checkout, order history and the merchant order
// book, including the dashboard aggregates.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products}
}

// PlaceOrder reserves stock and creates a pending order at the product's
// discount price.
func (s *OrderService) PlaceOrder(ctx context.Context, consumerID, productID string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, domain.ErrInsufficientStock
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !product.ExpiresAt.After(now) {
		return nil, domain.ErrProductExpired
	}

	// AdjustStock is the atomicity point: it refuses to take stock below
	// zero, so two concurrent checkouts cannot both win the last item.
	if err := s.products.AdjustStock(ctx, productID, -quantity); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ConsumerID: consumerID,
		MerchantID: product.MerchantID,
		ProductID:  product.ID,
		Quantity:   quantity,
		UnitPrice:  product.DiscountPrice,
		Total:      product.DiscountPrice * int64(quantity),
		Status:     domain.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		// Give the reserved stock back; the order never existed.
		_ = s.products.AdjustStock(ctx, productID, quantity)
		return nil, err
	}
	return created, nil
}

func (s *OrderService) ListConsumerOrders(ctx context.Context, consumerID string) ([]*domain.Order, error) {
	return s.orders.ListByConsumer(ctx, consumerID)
}

// CancelOrder cancels a consumer's own order and restocks the product.
func (s *OrderService) CancelOrder(ctx context.Context, consumerID, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ConsumerID != consumerID {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(domain.OrderCancelled) {
		return nil, domain.ErrInvalidOrderTransition
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, domain.OrderCancelled)
	if err != nil {
		return nil, err
	}
	_ = s.products.AdjustStock(ctx, order.ProductID, order.Quantity)
	return updated, nil
}

func (s *OrderService) ListMerchantOrders(ctx context.Context, merchantID string) ([]*domain.Order, error) {
	return s.orders.ListByMerchant(ctx, merchantID)
}

// UpdateOrderStatus advances an order through its lifecycle on behalf of
// the selling merchant.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, merchantID, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.MerchantID != merchantID {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidOrderTransition
	}
	return s.orders.UpdateStatus(ctx, orderID, next)
}

func (s *OrderService) MerchantDashboard(ctx context.Context, merchantID string) (*domain.MerchantStats, error) {
	return s.orders.MerchantStats(ctx, merchantID)
}
