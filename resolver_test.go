package profile_test

import (
	"context"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupResolver(t *testing.T) (profile.RepositoryManager, profile.TokenService, *profile.Resolver) {
	t.Helper()

	_, mgr := setupTestDB(t)
	tokens := testTokenService()
	resolver := profile.NewResolver(mgr.Users(), tokens)

	return mgr, tokens, resolver
}

func tokenForUser(t *testing.T, tokens profile.TokenService, user *profile.User) string {
	t.Helper()

	token, err := tokens.Generate(testIdentity{
		id:       user.ID.String(),
		username: user.Username,
		email:    user.Email,
		role:     string(user.Role),
	})
	require.NoError(t, err)
	return token
}

func TestResolverRequired(t *testing.T) {
	mgr, tokens, resolver := setupResolver(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	t.Run("resolves an active account", func(t *testing.T) {
		resolved, err := resolver.Required(ctx, tokenForUser(t, tokens, user))
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, user.ID, resolved.ID)
	})

	t.Run("no credential", func(t *testing.T) {
		_, err := resolver.Required(ctx, "")
		assert.ErrorIs(t, err, profile.ErrNoCredential)
	})

	t.Run("garbled credential", func(t *testing.T) {
		_, err := resolver.Required(ctx, "garbage")
		require.Error(t, err)
		assert.True(t, profile.IsMalformedError(err))
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, err := tokens.Generate(testIdentity{
			id:       user.ID.String(),
			username: "ghost",
			role:     string(profile.RoleUser),
		})
		require.NoError(t, err)

		_, err = resolver.Required(ctx, token)
		assert.ErrorIs(t, err, profile.ErrIdentityNotFound)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := registerTestUser(t, mgr, "grace", "grace@example.com")
		token := tokenForUser(t, tokens, inactive)

		off := false
		_, err := mgr.Users().Patch(ctx, inactive, profile.UserPatch{IsActive: &off})
		require.NoError(t, err)

		_, err = resolver.Required(ctx, token)
		assert.ErrorIs(t, err, profile.ErrInactiveAccount)
	})
}

func TestResolverContext(t *testing.T) {
	mgr, tokens, resolver := setupResolver(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	t.Run("carries account and claims", func(t *testing.T) {
		reqCtx, err := resolver.Context(ctx, tokenForUser(t, tokens, user))
		require.NoError(t, err)

		carried, ok := profile.FromContext(reqCtx)
		require.True(t, ok)
		assert.Equal(t, user.ID, carried.ID)

		claims, ok := profile.GetClaims(reqCtx)
		require.True(t, ok)
		assert.Equal(t, "ada", claims.Subject())
	})

	t.Run("failed resolution leaves the context untouched", func(t *testing.T) {
		reqCtx, err := resolver.Context(ctx, "")
		assert.ErrorIs(t, err, profile.ErrNoCredential)

		_, ok := profile.FromContext(reqCtx)
		assert.False(t, ok)
		_, ok = profile.GetClaims(reqCtx)
		assert.False(t, ok)
	})
}

func TestResolverOptional(t *testing.T) {
	mgr, tokens, resolver := setupResolver(t)
	ctx := context.Background()

	t.Run("no credential means anonymous", func(t *testing.T) {
		user, err := resolver.Optional(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("present credential still resolves", func(t *testing.T) {
		registered := registerTestUser(t, mgr, "ada", "ada@example.com")
		resolved, err := resolver.Optional(ctx, tokenForUser(t, tokens, registered))
		require.NoError(t, err)
		require.NotNil(t, resolved)
		assert.Equal(t, registered.ID, resolved.ID)
	})

	t.Run("present but invalid credential is an error", func(t *testing.T) {
		_, err := resolver.Optional(ctx, "garbage")
		require.Error(t, err)
	})
}

func TestResolverRequireRole(t *testing.T) {
	_, _, resolver := setupResolver(t)

	admin := &profile.User{Role: profile.RoleAdmin}
	member := &profile.User{Role: profile.RoleUser}

	assert.NoError(t, resolver.RequireAdmin(admin))
	assert.ErrorIs(t, resolver.RequireAdmin(member), profile.ErrForbidden)
	assert.NoError(t, resolver.RequireRole(member, profile.RoleUser, profile.RoleAdmin))
	assert.ErrorIs(t, resolver.RequireRole(nil, profile.RoleUser), profile.ErrNoCredential)
}

func TestResolverRequireFeature(t *testing.T) {
	_, _, resolver := setupResolver(t)

	gate := profile.NewFeatureGate(
		profile.WithFeature(profile.FeatureOpenRegistration, false),
	)

	assert.ErrorIs(t, resolver.RequireFeature(gate, profile.FeatureOpenRegistration), profile.ErrFeatureDisabled)
	assert.NoError(t, resolver.RequireFeature(gate, profile.FeatureAccountDeletion), "undeclared features stay enabled")
	assert.NoError(t, resolver.RequireFeature(nil, profile.FeatureOpenRegistration), "a nil gate blocks nothing")
}
