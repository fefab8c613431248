package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// RegisterInput carries a self-registration request. Only consumers and
// merchants self-register; merchant registrations start unverified.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	Role      domain.Role
	StoreName string
}

// LoginResult is the outcome of a successful login. Exactly one of Token
// or SessionID is set, depending on the scheme the caller asked for.
type LoginResult struct {
	Token     string
	SessionID string
	Account   *domain.Account
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string, scheme domain.CredentialScheme) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Account(ctx context.Context, id string) (*domain.Account, error)
}
