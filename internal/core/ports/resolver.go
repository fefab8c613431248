package ports

import (
	"context"

	"github.com/nomi-id/nomi-api/internal/core/domain"
)

// CredentialResolver turns a request's credentials into exactly one
// Principal, or fails with domain.ErrUnauthenticated.
//
// Resolution order is a strict precedence the whole platform depends on:
// a present Authorization header is the only scheme attempted, and its
// failure is terminal — the resolver never falls back to the session
// cookie of a caller that explicitly chose token auth.
//
// allowedRoles narrows the session branch only (empty = any role); the
// Authorization Gate enforces roles for both schemes afterwards.
type CredentialResolver interface {
	Resolve(ctx context.Context, authorization, sessionID string, allowedRoles ...domain.Role) (*domain.Principal, error)
}
