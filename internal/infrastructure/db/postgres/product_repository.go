package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type productModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	MerchantID    string `gorm:"size:36;index;not null"`
	Name          string `gorm:"size:255;not null"`
	Category      string `gorm:"size:64;index"`
	Description   string
	OriginalPrice int64
	DiscountPrice int64
	Stock         int
	ExpiresAt     time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (productModel) TableName() string { return "products" }

func (m *productModel) toEntity() *domain.Product {
	return &domain.Product{
		ID:            m.ID,
		MerchantID:    m.MerchantID,
		Name:          m.Name,
		Category:      m.Category,
		Description:   m.Description,
		OriginalPrice: m.OriginalPrice,
		DiscountPrice: m.DiscountPrice,
		Stock:         m.Stock,
		ExpiresAt:     m.ExpiresAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func productModelFromEntity(p *domain.Product) productModel {
	return productModel{
		ID:            p.ID,
		MerchantID:    p.MerchantID,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		OriginalPrice: p.OriginalPrice,
		DiscountPrice: p.DiscountPrice,
		Stock:         p.Stock,
		ExpiresAt:     p.ExpiresAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductRepository persists products in postgres via gorm.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := productModelFromEntity(product)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

// Update replaces the merchant-editable fields. Stock is adjusted only
// through AdjustStock so concurrent checkouts are never overwritten.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("id = ? AND merchant_id = ?", product.ID, product.MerchantID).
		Updates(map[string]any{
			"name":           product.Name,
			"category":       product.Category,
			"description":    product.Description,
			"original_price": product.OriginalPrice,
			"discount_price": product.DiscountPrice,
			"expires_at":     product.ExpiresAt,
			"updated_at":     product.UpdatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}
	return r.FindByID(ctx, product.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, merchantID, productID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", productID, merchantID).
		Delete(&productModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *ProductRepository) ListAvailable(ctx context.Context, category string) ([]*domain.Product, error) {
	tx := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("stock > 0 AND expires_at > ?", time.Now().UTC())
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var rows []productModel
	if err := tx.Order("expires_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToEntities(rows), nil
}

func (r *ProductRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Product, error) {
	var rows []productModel
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return productsToEntities(rows), nil
}

// AdjustStock changes stock by delta in a single conditional update, so a
// decrement can never take stock below zero even under concurrent checkouts.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, productID); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func productsToEntities(rows []productModel) []*domain.Product {
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].toEntity())
	}
	return products
}
