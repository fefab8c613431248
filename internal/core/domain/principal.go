package domain

import "errors"

// Role is the closed set of account roles on the platform.
type Role string

const (
	RoleConsumer      Role = "consumer"
	RoleMerchant      Role = "merchant"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleMerchant, RoleAdministrator:
		return true
	}
	return false
}

// CredentialScheme records which mechanism authenticated a request.
// A request is resolved by exactly one scheme, never a mix.
type CredentialScheme string

const (
	SchemeToken   CredentialScheme = "token"
	SchemeSession CredentialScheme = "session"
)

// VerificationStatus is the approval state of a merchant account.
// Non-merchant accounts carry no verification status.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// Valid reports whether v is one of the known verification states.
func (v VerificationStatus) Valid() bool {
	switch v {
	case VerificationUnverified, VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbiddenRole = errors.New("forbidden-role")
var ErrForbiddenUnverified = errors.New("forbidden-unverified")

// Principal is the resolved identity of a caller for the current request.
//
// It is immutable after construction: role, scheme and verification are
// fixed at resolution time and re-resolved on every request rather than
// cached server-side. An unresolvable request produces no Principal at
// all, never a Principal with an empty role.
type Principal struct {
	// ID is the account identifier behind this principal.
	ID string `json:"id"`

	// Role is one of the closed role set. Always present.
	Role Role `json:"role"`

	// Scheme records which credential mechanism produced this principal.
	Scheme CredentialScheme `json:"scheme"`

	// Verification is set only when Role is merchant; empty otherwise.
	Verification VerificationStatus `json:"verification,omitempty"`
}
