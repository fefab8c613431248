package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type orderModel struct {
	ID         string `gorm:"primaryKey;size:36"`
	ConsumerID string `gorm:"size:36;index;not null"`
	MerchantID string `gorm:"size:36;index;not null"`
	ProductID  string `gorm:"size:36;index;not null"`
	Quantity   int
	UnitPrice  int64
	Total      int64
	Status     string `gorm:"size:16;index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toEntity() *domain.Order {
	return &domain.Order{
		ID:         m.ID,
		ConsumerID: m.ConsumerID,
		MerchantID: m.MerchantID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		Total:      m.Total,
		Status:     domain.OrderStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// statusCount is the row shape of the GROUP BY aggregations below.
type statusCount struct {
	Status string
	Count  int64
}

// OrderRepository persists orders in postgres via gorm and serves the
// dashboard aggregation queries.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	row := orderModel{
		ID:         order.ID,
		ConsumerID: order.ConsumerID,
		MerchantID: order.MerchantID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		UnitPrice:  order.UnitPrice,
		Total:      order.Total,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *OrderRepository) ListByConsumer(ctx context.Context, consumerID string) ([]*domain.Order, error) {
	return r.list(ctx, "consumer_id = ?", consumerID)
}

func (r *OrderRepository) ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Order, error) {
	return r.list(ctx, "merchant_id = ?", merchantID)
}

func (r *OrderRepository) list(ctx context.Context, query string, arg any) ([]*domain.Order, error) {
	var rows []orderModel
	err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].toEntity())
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}

// MerchantStats aggregates one merchant's order book and catalog size.
func (r *OrderRepository) MerchantStats(ctx context.Context, merchantID string) (*domain.MerchantStats, error) {
	stats := &domain.MerchantStats{OrdersByStatus: make(map[domain.OrderStatus]int64)}

	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Select("status, COUNT(*) AS count").
		Where("merchant_id = ?", merchantID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.OrdersByStatus[domain.OrderStatus(c.Status)] = c.Count
	}

	err = r.db.WithContext(ctx).
		Model(&orderModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("merchant_id = ? AND status IN ?", merchantID, []string{string(domain.OrderPaid), string(domain.OrderPickedUp)}).
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("merchant_id = ?", merchantID).
		Count(&stats.ProductsListed).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// PlatformStats aggregates the whole marketplace for the admin dashboard.
func (r *OrderRepository) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	stats := &domain.PlatformStats{
		Accounts:         make(map[domain.Role]int64),
		MerchantsByState: make(map[domain.VerificationStatus]int64),
		OrdersByStatus:   make(map[domain.OrderStatus]int64),
	}

	var roleCounts []statusCount
	err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Select("role AS status, COUNT(*) AS count").
		Group("role").
		Scan(&roleCounts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range roleCounts {
		stats.Accounts[domain.Role(c.Status)] = c.Count
	}

	var verificationCounts []statusCount
	err = r.db.WithContext(ctx).
		Model(&accountModel{}).
		Select("verification AS status, COUNT(*) AS count").
		Where("role = ?", string(domain.RoleMerchant)).
		Group("verification").
		Scan(&verificationCounts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range verificationCounts {
		stats.MerchantsByState[domain.VerificationStatus(c.Status)] = c.Count
	}

	var orderCounts []statusCount
	err = r.db.WithContext(ctx).
		Model(&orderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&orderCounts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range orderCounts {
		stats.OrdersByStatus[domain.OrderStatus(c.Status)] = c.Count
	}

	err = r.db.WithContext(ctx).
		Model(&orderModel{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status IN ?", []string{string(domain.OrderPaid), string(domain.OrderPickedUp)}).
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
