package service

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// AdminService implements the back-office operations: account listing,
// merchant verification decisions, platform-wide aggregates.
type AdminService struct {
	accounts ports.AccountRepository
	orders   ports.OrderRepository
}

func NewAdminService(accounts ports.AccountRepository, orders ports.OrderRepository) *AdminService {
	return &AdminService{accounts: accounts, orders: orders}
}

func (s *AdminService) ListAccounts(ctx context.Context, role domain.Role) ([]*domain.Account, error) {
	return s.accounts.List(ctx, role)
}

// SetMerchantVerification records a verification decision for a merchant.
// The new status takes effect on the merchant's next request: sessions
// read the account fresh, and tokens expire into a re-login.
func (s *AdminService) SetMerchantVerification(ctx context.Context, merchantID string, status domain.VerificationStatus) (*domain.Account, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidVerification
	}

	account, err := s.accounts.FindByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleMerchant {
		return nil, domain.ErrNotMerchant
	}

	return s.accounts.UpdateVerification(ctx, merchantID, status)
}

func (s *AdminService) PlatformDashboard(ctx context.Context) (*domain.PlatformStats, error) {
	return s.orders.PlatformStats(ctx)
}
