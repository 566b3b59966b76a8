package service

import "escrow-ledger/internal/core/domain"

// Authorizer holds the privileged administrator identity, bound once at
// construction from configuration. Every mutating operation re-checks
// authorization through it at call time; results are never cached.
type Authorizer struct {
	admin string
}

// NewAuthorizer creates an Authorizer for the given admin identity.
func NewAuthorizer(admin string) Authorizer {
	return Authorizer{admin: admin}
}

// IsAdmin reports whether caller is the privileged administrator.
func (a Authorizer) IsAdmin(caller string) bool {
	return caller != "" && caller == a.admin
}

// CanRegisterApplication allows self-registration and admin-privileged
// registration on behalf of another identity.
func (a Authorizer) CanRegisterApplication(caller, owner string) bool {
	return caller == owner || a.IsAdmin(caller)
}

// CanManageApplication allows only the owning identity. The no-owner
// sentinel never authorizes anyone.
func (a Authorizer) CanManageApplication(caller, owner string) bool {
	return owner != domain.NoOwner && caller == owner
}
