package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// AuthService implements registration, login over both credential
// schemes, and logout.
type AuthService struct {
	accounts  ports.AccountRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(accounts ports.AccountRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{accounts: accounts, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a consumer or merchant account. Administrator accounts
// are provisioned out-of-band and cannot be self-registered. New merchants
// start with verification pending review.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role != domain.RoleConsumer && in.Role != domain.RoleMerchant {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Role == domain.RoleMerchant {
		account.StoreName = in.StoreName
		account.Verification = domain.VerificationPending
	}

	return s.accounts.Create(ctx, account)
}

// Login verifies the password and issues the credential the caller asked
// for: a signed bearer token, or a server-side session whose ID is set as
// a cookie by the handler.
func (s *AuthService) Login(ctx context.Context, email, password string, scheme domain.CredentialScheme) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	result := &ports.LoginResult{Account: account}
	switch scheme {
	case domain.SchemeSession:
		sessionID, err := s.sessions.Create(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		result.SessionID = sessionID
	default:
		token, err := s.generateToken(account)
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	return result, nil
}

// Logout terminates the given session. Token logins carry no server-side
// state; discarding the token client-side is the whole logout.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Account returns the account behind an authenticated principal.
func (s *AuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	if account.Role == domain.RoleMerchant {
		claims.Verification = string(account.Verification)
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
