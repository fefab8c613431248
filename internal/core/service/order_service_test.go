package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type stubProductRepo struct {
	products map[string]*domain.Product
	nextID   int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	copy := cloneProduct(product)
	r.nextID++
	copy.ID = fmt.Sprintf("prod-%d", r.nextID)
	r.products[copy.ID] = cloneProduct(copy)
	return cloneProduct(copy), nil
}

func (r *stubProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	existing, ok := r.products[product.ID]
	if !ok || existing.MerchantID != product.MerchantID {
		return nil, domain.ErrProductNotFound
	}
	copy := cloneProduct(product)
	copy.Stock = existing.Stock
	r.products[copy.ID] = cloneProduct(copy)
	return cloneProduct(copy), nil
}

func (r *stubProductRepo) Delete(_ context.Context, merchantID, productID string) error {
	existing, ok := r.products[productID]
	if !ok || existing.MerchantID != merchantID {
		return domain.ErrProductNotFound
	}
	delete(r.products, productID)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) ListAvailable(_ context.Context, category string) ([]*domain.Product, error) {
	var out []*domain.Product
	now := time.Now()
	for _, p := range r.products {
		if p.Available(now) && (category == "" || p.Category == category) {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListByMerchant(_ context.Context, merchantID string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.MerchantID == merchantID {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, productID string, delta int) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

type stubOrderRepo struct {
	orders map[string]*domain.Order
	nextID int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	copy := cloneOrder(order)
	r.nextID++
	copy.ID = fmt.Sprintf("ord-%d", r.nextID)
	r.orders[copy.ID] = cloneOrder(copy)
	return cloneOrder(copy), nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := r.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) ListByConsumer(_ context.Context, consumerID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.ConsumerID == consumerID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListByMerchant(_ context.Context, merchantID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.MerchantID == merchantID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) MerchantStats(_ context.Context, merchantID string) (*domain.MerchantStats, error) {
	stats := &domain.MerchantStats{OrdersByStatus: make(map[domain.OrderStatus]int64)}
	for _, o := range r.orders {
		if o.MerchantID != merchantID {
			continue
		}
		stats.OrdersByStatus[o.Status]++
		if o.Status == domain.OrderPaid || o.Status == domain.OrderPickedUp {
			stats.Revenue += o.Total
		}
	}
	return stats, nil
}

func (r *stubOrderRepo) PlatformStats(_ context.Context) (*domain.PlatformStats, error) {
	stats := &domain.PlatformStats{OrdersByStatus: make(map[domain.OrderStatus]int64)}
	for _, o := range r.orders {
		stats.OrdersByStatus[o.Status]++
	}
	return stats, nil
}

func seedProduct(t *testing.T, repo *stubProductRepo, merchantID string, stock int, discount int64, expiresIn time.Duration) *domain.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &domain.Product{
		MerchantID:    merchantID,
		Name:          "Roti sisa",
		Category:      "bakery",
		OriginalPrice: discount * 2,
		DiscountPrice: discount,
		Stock:         stock,
		ExpiresAt:     time.Now().Add(expiresIn),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestOrderService_PlaceOrder(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	product := seedProduct(t, products, "merchant-1", 5, 10000, time.Hour)
	svc := NewOrderService(orders, products)

	order, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 2)
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if order.Total != 20000 {
		t.Fatalf("total = %d, want 20000", order.Total)
	}
	if order.MerchantID != "merchant-1" {
		t.Fatalf("merchant = %s", order.MerchantID)
	}

	left, _ := products.FindByID(context.Background(), product.ID)
	if left.Stock != 3 {
		t.Fatalf("stock = %d, want 3", left.Stock)
	}
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	products := newStubProductRepo()
	product := seedProduct(t, products, "merchant-1", 1, 10000, time.Hour)
	svc := NewOrderService(newStubOrderRepo(), products)

	_, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 2)
	if err != domain.ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestOrderService_PlaceOrder_ExpiredProduct(t *testing.T) {
	products := newStubProductRepo()
	product := seedProduct(t, products, "merchant-1", 5, 10000, -time.Minute)
	svc := NewOrderService(newStubOrderRepo(), products)

	_, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 1)
	if err != domain.ErrProductExpired {
		t.Fatalf("expected ErrProductExpired, got %v", err)
	}
}

func TestOrderService_CancelOrder_Restocks(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	product := seedProduct(t, products, "merchant-1", 5, 10000, time.Hour)
	svc := NewOrderService(orders, products)

	order, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 2)
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	cancelled, err := svc.CancelOrder(context.Background(), "consumer-1", order.ID)
	if err != nil {
		t.Fatalf("CancelOrder returned error: %v", err)
	}
	if cancelled.Status != domain.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	left, _ := products.FindByID(context.Background(), product.ID)
	if left.Stock != 5 {
		t.Fatalf("stock = %d, want 5 after restock", left.Stock)
	}
}

func TestOrderService_CancelOrder_NotOwner(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	product := seedProduct(t, products, "merchant-1", 5, 10000, time.Hour)
	svc := NewOrderService(orders, products)

	order, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 1)
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	if _, err := svc.CancelOrder(context.Background(), "consumer-2", order.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound for foreign order, got %v", err)
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	product := seedProduct(t, products, "merchant-1", 5, 10000, time.Hour)
	svc := NewOrderService(orders, products)

	order, err := svc.PlaceOrder(context.Background(), "consumer-1", product.ID, 1)
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	paid, err := svc.UpdateOrderStatus(context.Background(), "merchant-1", order.ID, domain.OrderPaid)
	if err != nil {
		t.Fatalf("UpdateOrderStatus returned error: %v", err)
	}
	if paid.Status != domain.OrderPaid {
		t.Fatalf("status = %s, want paid", paid.Status)
	}

	// paid -> pending is not a legal transition
	if _, err := svc.UpdateOrderStatus(context.Background(), "merchant-1", order.ID, domain.OrderPending); err != domain.ErrInvalidOrderTransition {
		t.Fatalf("expected ErrInvalidOrderTransition, got %v", err)
	}

	// another merchant must not see the order at all
	if _, err := svc.UpdateOrderStatus(context.Background(), "merchant-2", order.ID, domain.OrderPickedUp); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound for foreign merchant, got %v", err)
	}
}
