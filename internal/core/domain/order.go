package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of a consumer order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderCancelled OrderStatus = "cancelled"
)

// validOrderTransitions defines the allowed state machine transitions.
var validOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderPickedUp, OrderCancelled},
}

var ErrOrderNotFound = errors.New("order not found")
var ErrInvalidOrderTransition = errors.New("invalid order status transition")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order records a consumer purchase of a single product.
type Order struct {
	ID         string      `json:"id"`
	ConsumerID string      `json:"consumer_id"`
	MerchantID string      `json:"merchant_id"`
	ProductID  string      `json:"product_id"`
	Quantity   int         `json:"quantity"`
	UnitPrice  int64       `json:"unit_price"`
	Total      int64       `json:"total"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// MerchantStats aggregates a merchant's order book for the dashboard.
type MerchantStats struct {
	Revenue        int64                 `json:"revenue"`
	OrdersByStatus map[OrderStatus]int64 `json:"orders_by_status"`
	ProductsListed int64                 `json:"products_listed"`
}

// PlatformStats aggregates the whole marketplace for the admin dashboard.
type PlatformStats struct {
	Accounts         map[Role]int64               `json:"accounts"`
	MerchantsByState map[VerificationStatus]int64 `json:"merchants_by_state"`
	OrdersByStatus   map[OrderStatus]int64        `json:"orders_by_status"`
	Revenue          int64                        `json:"revenue"`
}
