package profile_test

import (
	"context"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/goliatone/go-profile/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFillsDefaults(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	user, err := mgr.Users().Register(ctx, profile.NewUser{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "601234567",
		Password:  testPassword,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, profile.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "ada", user.Username, "username defaults to the email local part")
	assert.Equal(t, "+48601234567", user.Phone, "phone is stored in E.164")
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.NoError(t, profile.ComparePasswordAndHash(testPassword, user.PasswordHash))
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	_, mgr := setupTestDB(t)

	_, err := mgr.Users().Register(context.Background(), profile.NewUser{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "alllowercase1",
	})
	assert.ErrorIs(t, err, profile.ErrWeakPassword)
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	_, mgr := setupTestDB(t)

	_, err := mgr.Users().Register(context.Background(), profile.NewUser{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Phone:     "not-a-phone",
		Password:  testPassword,
	})
	require.Error(t, err)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	registerTestUser(t, mgr, "ada", "ada@example.com")

	_, err := mgr.Users().Register(ctx, profile.NewUser{
		FirstName: "Other",
		LastName:  "Person",
		Username:  "ada",
		Email:     "other@example.com",
		Password:  testPassword,
	})
	require.Error(t, err)
	assert.True(t, repository.IsConflict(err))

	_, err = mgr.Users().Register(ctx, profile.NewUser{
		FirstName: "Other",
		LastName:  "Person",
		Username:  "other",
		Email:     "ada@example.com",
		Password:  testPassword,
	})
	require.Error(t, err)
	assert.True(t, repository.IsConflict(err))
}

func TestRegisterWithHashidIsDeterministic(t *testing.T) {
	input := profile.NewUser{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  testPassword,
		UseHashid: true,
	}

	_, mgrA := setupTestDB(t)
	a, err := mgrA.Users().Register(context.Background(), input)
	require.NoError(t, err)

	_, mgrB := setupTestDB(t)
	b, err := mgrB.Users().Register(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, a.ID, b.ID, "hashid-derived IDs depend only on the email")
}

func TestAuthenticate(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	created := registerTestUser(t, mgr, "ada", "ada@example.com")

	t.Run("by email", func(t *testing.T) {
		user, err := mgr.Users().Authenticate(ctx, "ada@example.com", testPassword)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("by username", func(t *testing.T) {
		user, err := mgr.Users().Authenticate(ctx, "ada", testPassword)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password and unknown account fail identically", func(t *testing.T) {
		user, err := mgr.Users().Authenticate(ctx, "ada", "Wr0ng!pass")
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = mgr.Users().Authenticate(ctx, "nobody", testPassword)
		require.NoError(t, err)
		assert.Nil(t, user)

		user, err = mgr.Users().Authenticate(ctx, "nobody@example.com", testPassword)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestGetByIdentifier(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	created := registerTestUser(t, mgr, "ada", "ada@example.com")

	for _, identifier := range []string{
		created.ID.String(),
		"ada@example.com",
		"ada",
	} {
		user, err := mgr.Users().GetByIdentifier(ctx, identifier)
		require.NoError(t, err)
		require.NotNil(t, user, "identifier %q", identifier)
		assert.Equal(t, created.ID, user.ID)
	}

	user, err := mgr.Users().GetByIdentifier(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestPatchSubstitutesPasswordHash(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")
	previousHash := user.PasswordHash

	next := "N3w$ecret!!"
	description := "mathematician"
	updated, err := mgr.Users().Patch(ctx, user, profile.UserPatch{
		Password:    &next,
		Description: &description,
	})
	require.NoError(t, err)

	assert.Equal(t, "mathematician", updated.Description)
	assert.NotEqual(t, previousHash, updated.PasswordHash)
	assert.NotEqual(t, next, updated.PasswordHash)
	assert.NoError(t, profile.ComparePasswordAndHash(next, updated.PasswordHash))
}

func TestPatchRejectsWeakPassword(t *testing.T) {
	_, mgr := setupTestDB(t)

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	weak := "short"
	_, err := mgr.Users().Patch(context.Background(), user, profile.UserPatch{Password: &weak})
	assert.ErrorIs(t, err, profile.ErrWeakPassword)
}

func TestChangePassword(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	t.Run("wrong current password", func(t *testing.T) {
		_, err := mgr.Users().ChangePassword(ctx, user, "Wr0ng!pass", "N3w$ecret!!")
		assert.ErrorIs(t, err, profile.ErrMismatchedHashAndPassword)
	})

	t.Run("unchanged password", func(t *testing.T) {
		_, err := mgr.Users().ChangePassword(ctx, user, testPassword, testPassword)
		assert.ErrorIs(t, err, profile.ErrPasswordUnchanged)
	})

	t.Run("valid rotation", func(t *testing.T) {
		updated, err := mgr.Users().ChangePassword(ctx, user, testPassword, "N3w$ecret!!")
		require.NoError(t, err)
		assert.NoError(t, profile.ComparePasswordAndHash("N3w$ecret!!", updated.PasswordHash))
	})
}

func TestSetAndClearPicture(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	user := registerTestUser(t, mgr, "ada", "ada@example.com")

	updated, err := mgr.Users().SetPicture(ctx, user, "http://localhost/static/users/pictures/x/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/static/users/pictures/x/avatar.png", updated.ProfilePicture)

	cleared, err := mgr.Users().ClearPicture(ctx, updated)
	require.NoError(t, err)
	assert.Empty(t, cleared.ProfilePicture)
}

func TestEnsureFirstAdmin(t *testing.T) {
	_, mgr := setupTestDB(t)
	ctx := context.Background()

	cfg := testConfig{
		firstAdmin: profile.FirstAdmin{
			FirstName: "Root",
			LastName:  "Admin",
			Username:  "root",
			Email:     "root@example.com",
			Password:  testPassword,
		},
	}

	admin, err := profile.EnsureFirstAdmin(ctx, mgr, cfg)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, profile.RoleAdmin, admin.Role)

	again, err := profile.EnsureFirstAdmin(ctx, mgr, cfg)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, admin.ID, again.ID, "an existing admin is left untouched")

	none, err := profile.EnsureFirstAdmin(ctx, mgr, testConfig{})
	require.NoError(t, err)
	assert.Nil(t, none, "no configured admin means nothing to seed")
}
