package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type accountModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;index;not null"`
	StoreName    string `gorm:"size:255"`
	Verification string `gorm:"size:16"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (accountModel) TableName() string { return "accounts" }

func (m *accountModel) toEntity() *domain.Account {
	return &domain.Account{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		StoreName:    m.StoreName,
		Verification: domain.VerificationStatus(m.Verification),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func accountModelFromEntity(a *domain.Account) accountModel {
	return accountModel{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		StoreName:    a.StoreName,
		Verification: string(a.Verification),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AccountRepository persists accounts in postgres via gorm.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	row := accountModelFromEntity(account)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *AccountRepository) List(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	tx := r.db.WithContext(ctx).Model(&accountModel{})
	if role != "" {
		tx = tx.Where("role = ?", string(role))
	}

	var rows []accountModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toEntity())
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus) (*domain.Account, error) {
	result := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"verification": string(status),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}
