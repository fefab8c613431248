package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrProductExpired = errors.New("product already expired")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrInvalidPricing = errors.New("discount price must be below original price")

// Product is a surplus/near-expiry listing owned by a merchant.
// Prices are in rupiah, no decimals.
type Product struct {
	ID            string    `json:"id"`
	MerchantID    string    `json:"merchant_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	OriginalPrice int64     `json:"original_price"`
	DiscountPrice int64     `json:"discount_price"`
	Stock         int       `json:"stock"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Available reports whether the product can still be ordered at time now.
func (p *Product) Available(now time.Time) bool {
	return p.Stock > 0 && p.ExpiresAt.After(now)
}
