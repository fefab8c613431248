package service

import (
	"context"
	"time"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// CatalogService implements product management for merchants and the
// public storefront listing.
type CatalogService struct {
	products ports.ProductRepository
}

func NewCatalogService(products ports.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) CreateProduct(ctx context.Context, merchantID string, in ports.ProductInput) (*domain.Product, error) {
	product, err := productFromInput(merchantID, in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	return s.products.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, merchantID, productID string, in ports.ProductInput) (*domain.Product, error) {
	product, err := productFromInput(merchantID, in)
	if err != nil {
		return nil, err
	}
	product.ID = productID
	product.UpdatedAt = time.Now().UTC()
	return s.products.Update(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, merchantID, productID string) error {
	return s.products.Delete(ctx, merchantID, productID)
}

func (s *CatalogService) ListAvailable(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.ListAvailable(ctx, category)
}

func (s *CatalogService) ListMerchantProducts(ctx context.Context, merchantID string) ([]*domain.Product, error) {
	return s.products.ListByMerchant(ctx, merchantID)
}

func productFromInput(merchantID string, in ports.ProductInput) (*domain.Product, error) {
	if in.DiscountPrice <= 0 || in.DiscountPrice >= in.OriginalPrice {
		return nil, domain.ErrInvalidPricing
	}
	expiresAt, err := time.Parse(time.RFC3339, in.ExpiresAt)
	if err != nil || !expiresAt.After(time.Now()) {
		return nil, domain.ErrProductExpired
	}
	return &domain.Product{
		MerchantID:    merchantID,
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		OriginalPrice: in.OriginalPrice,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		ExpiresAt:     expiresAt,
	}, nil
}
