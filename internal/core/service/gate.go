package service

import "github.com/nomi-id/nomi-api/internal/core/domain"

// Authorize decides whether a resolved principal may perform an operation
// declared with the given role set and merchant-verification requirement.
//
// The gate is stateless and deterministic: identical inputs always yield
// the identical decision. Callers must pass a freshly resolved principal;
// verification status is never trusted past its fetch.
//
// An unverified merchant on a verification-gated operation is rejected
// with ErrForbiddenUnverified, never ErrForbiddenRole.
func Authorize(p *domain.Principal, requiredRoles []domain.Role, requireVerifiedMerchant bool) error {
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if len(requiredRoles) > 0 && !roleIn(p.Role, requiredRoles) {
		return domain.ErrForbiddenRole
	}
	if requireVerifiedMerchant && p.Role == domain.RoleMerchant && p.Verification != domain.VerificationVerified {
		return domain.ErrForbiddenUnverified
	}
	return nil
}

func roleIn(role domain.Role, set []domain.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
