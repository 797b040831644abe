package profile

import (
	"context"

	"github.com/goliatone/go-profile/repository"
)

// identityLookup is the slice of the users repository the resolver needs.
type identityLookup interface {
	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
}

// Resolver turns raw request credentials into accounts and guards access.
type Resolver struct {
	users  identityLookup
	tokens TokenService
	logger Logger
}

// NewResolver builds a Resolver over the users repository and token service.
func NewResolver(users identityLookup, tokens TokenService) *Resolver {
	return &Resolver{
		users:  users,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (r *Resolver) WithLogger(l Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// Required resolves the credential to an active account or fails. An absent
// credential, a bad token, and an unknown subject all leave the caller
// unauthenticated; an inactive account is reported as such.
func (r *Resolver) Required(ctx context.Context, credential string) (*User, error) {
	user, _, err := r.resolve(ctx, credential)
	return user, err
}

// Context resolves the credential and returns a child context carrying the
// account and its claims, so downstream handlers can read them back with
// FromContext and GetClaims.
func (r *Resolver) Context(ctx context.Context, credential string) (context.Context, error) {
	user, claims, err := r.resolve(ctx, credential)
	if err != nil {
		return ctx, err
	}
	return WithClaimsContext(WithContext(ctx, user), claims), nil
}

func (r *Resolver) resolve(ctx context.Context, credential string) (*User, AuthClaims, error) {
	if credential == "" {
		return nil, nil, ErrNoCredential
	}

	claims, err := r.tokens.Validate(credential)
	if err != nil {
		r.logger.Error("Resolver credential validation failed", "error", err)
		return nil, nil, err
	}

	user, err := r.users.GetByUsername(ctx, claims.Subject())
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		return nil, nil, ErrIdentityNotFound
	}

	if !user.IsActive {
		return nil, nil, ErrInactiveAccount
	}

	return user, claims, nil
}

// Optional resolves the credential when present. No credential means an
// anonymous caller, (nil, nil); a credential that is present but invalid is
// still an error.
func (r *Resolver) Optional(ctx context.Context, credential string) (*User, error) {
	if credential == "" {
		return nil, nil
	}
	return r.Required(ctx, credential)
}

// RequireRole checks the user holds one of the given roles.
func (r *Resolver) RequireRole(user *User, roles ...UserRole) error {
	if user == nil {
		return ErrNoCredential
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireAdmin is the common admin-only guard.
func (r *Resolver) RequireAdmin(user *User) error {
	return r.RequireRole(user, RoleAdmin)
}

// RequireFeature blocks the operation when the feature is switched off.
func (r *Resolver) RequireFeature(gate *FeatureGate, key string) error {
	if gate.Enabled(key) {
		return nil
	}
	return ErrFeatureDisabled
}
