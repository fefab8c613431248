package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// AccountRepository defines the interface for account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	UpdateVerification(ctx context.Context, id string, status domain.VerificationStatus) (*domain.Account, error)
}
