package domain

import (
	"errors"
	"time"
)

var ErrAccountExists = errors.New("account already exists")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotMerchant = errors.New("account is not a merchant")
var ErrInvalidVerification = errors.New("invalid verification status")
var ErrSessionNotFound = errors.New("session not found")

// Account models a registered actor: consumer, merchant (UMKM) or
// administrator. Administrators are provisioned out-of-band and never
// self-register.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Merchant-only fields; zero-valued for other roles.
	StoreName    string             `json:"store_name,omitempty"`
	Verification VerificationStatus `json:"verification,omitempty"`
}

// Principal builds the request principal for this account as resolved by
// the given credential scheme. Verification is carried only for merchants.
func (a *Account) Principal(scheme CredentialScheme) *Principal {
	p := &Principal{
		ID:     a.ID,
		Role:   a.Role,
		Scheme: scheme,
	}
	if a.Role == RoleMerchant {
		p.Verification = a.Verification
	}
	return p
}
