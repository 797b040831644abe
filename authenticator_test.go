package profile_test

import (
	"context"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthenticator(t *testing.T) (profile.RepositoryManager, *profile.Auther) {
	t.Helper()

	_, mgr := setupTestDB(t)
	provider := profile.NewUserProvider(mgr.Users())
	auther := profile.NewAuthenticator(provider, testConfig{
		signingKey:      string(testSigningKey),
		tokenExpiration: 60,
		issuer:          "test-issuer",
	})

	return mgr, auther
}

func TestAutherLogin(t *testing.T) {
	mgr, auther := setupAuthenticator(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	t.Run("valid credentials mint a token", func(t *testing.T) {
		token, err := auther.Login(ctx, "ada", testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := auther.TokenService().Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "ada", claims.Subject())
		assert.Equal(t, user.ID.String(), claims.UserID())
	})

	t.Run("wrong password and unknown identifier fail identically", func(t *testing.T) {
		_, badPass := auther.Login(ctx, "ada", "Wr0ng!pass")
		_, unknown := auther.Login(ctx, "nobody", testPassword)

		assert.ErrorIs(t, badPass, profile.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknown, profile.ErrMismatchedHashAndPassword)
	})

	t.Run("inactive account", func(t *testing.T) {
		off := false
		_, err := mgr.Users().Patch(ctx, user, profile.UserPatch{IsActive: &off})
		require.NoError(t, err)

		_, err = auther.Login(ctx, "ada", testPassword)
		assert.ErrorIs(t, err, profile.ErrInactiveAccount)
	})
}

func TestAutherImpersonate(t *testing.T) {
	mgr, auther := setupAuthenticator(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	token, err := auther.Impersonate(ctx, "ada@example.com")
	require.NoError(t, err)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())

	_, err = auther.Impersonate(ctx, "nobody")
	assert.ErrorIs(t, err, profile.ErrIdentityNotFound)
}

func TestAutherSessionRoundTrip(t *testing.T) {
	mgr, auther := setupAuthenticator(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	token, err := auther.Login(ctx, "ada", testPassword)
	require.NoError(t, err)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), session.GetUserID())
	assert.Equal(t, "ada", session.GetUsername())
	assert.Equal(t, "test-issuer", session.GetIssuer())

	parsed, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)

	obj, ok := session.(*profile.SessionObject)
	require.True(t, ok)
	assert.True(t, obj.HasRole(string(profile.RoleUser)))
	assert.True(t, obj.IsAtLeast(profile.RoleUser))
	assert.False(t, obj.IsAtLeast(profile.RoleAdmin))

	identity, err := auther.IdentityFromSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "ada", identity.Username())

	_, err = auther.SessionFromToken("garbage")
	require.Error(t, err)
}
