package service

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nomi-id/nomi-api/internal/core/domain"
	"github.com/nomi-id/nomi-api/internal/core/ports"
)

// AccessClaims is the JWT payload minted at token login. Subject carries
// the account ID; Verification is present only on merchant tokens.
type AccessClaims struct {
	Role         string `json:"role"`
	Verification string `json:"verification,omitempty"`
	jwt.RegisteredClaims
}

// Resolver implements ports.CredentialResolver over the two credential
// schemes: HS256 bearer tokens and redis-backed session cookies.
//
// Resolution is a pure read: it validates, looks up, and constructs a
// Principal without mutating any persisted state.
type Resolver struct {
	accounts  ports.AccountRepository
	sessions  ports.SessionStore
	jwtSecret string
}

func NewResolver(accounts ports.AccountRepository, sessions ports.SessionStore, jwtSecret string) *Resolver {
	return &Resolver{accounts: accounts, sessions: sessions, jwtSecret: jwtSecret}
}

// Resolve produces exactly one Principal for the request, or fails with
// domain.ErrUnauthenticated. A present Authorization header short-circuits
// the session branch even when a valid cookie rides along: API-style
// callers opt into token auth explicitly and must not be silently
// satisfied by a stale browser cookie.
func (r *Resolver) Resolve(ctx context.Context, authorization, sessionID string, allowedRoles ...domain.Role) (*domain.Principal, error) {
	if authorization != "" {
		return r.resolveBearer(authorization)
	}
	if sessionID != "" {
		return r.resolveSession(ctx, sessionID, allowedRoles)
	}
	return nil, domain.ErrUnauthenticated
}

func (r *Resolver) resolveBearer(header string) (*domain.Principal, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, domain.ErrUnauthenticated
	}

	claims := &AccessClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(r.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return nil, domain.ErrUnauthenticated
	}

	p := &domain.Principal{
		ID:     claims.Subject,
		Role:   role,
		Scheme: domain.SchemeToken,
	}
	if role == domain.RoleMerchant {
		verification := domain.VerificationStatus(claims.Verification)
		if !verification.Valid() {
			return nil, domain.ErrUnauthenticated
		}
		p.Verification = verification
	}
	return p, nil
}

func (r *Resolver) resolveSession(ctx context.Context, sessionID string, allowedRoles []domain.Role) (*domain.Principal, error) {
	accountID, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	// Role and verification are read fresh on every request; session
	// records carry only the account ID.
	account, err := r.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	if len(allowedRoles) > 0 {
		// The session branch only ever matches consumers and merchants;
		// administrator tokens are minted out-of-band and never ride on
		// a browser cookie.
		if account.Role != domain.RoleConsumer && account.Role != domain.RoleMerchant {
			return nil, domain.ErrUnauthenticated
		}
		if !roleIn(account.Role, allowedRoles) {
			return nil, domain.ErrUnauthenticated
		}
	}

	return account.Principal(domain.SchemeSession), nil
}
