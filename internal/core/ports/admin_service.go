package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

type AdminService interface {
	ListAccounts(ctx context.Context, role domain.Role) ([]*domain.Account, error)
	SetMerchantVerification(ctx context.Context, merchantID string, status domain.VerificationStatus) (*domain.Account, error)
	PlatformDashboard(ctx context.Context) (*domain.PlatformStats, error)
}
