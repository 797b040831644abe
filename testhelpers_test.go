package profile_test

import (
	"context"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const testPassword = "Sup3r$ecret"

func setupTestDB(t *testing.T) (*bun.DB, profile.RepositoryManager) {
	t.Helper()

	db, err := profile.OpenSQLite(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	require.NoError(t, profile.ResetSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, profile.NewRepositoryManager(db)
}

func registerTestUser(t *testing.T, mgr profile.RepositoryManager, username, email string) *profile.User {
	t.Helper()

	user, err := mgr.Users().Register(context.Background(), profile.NewUser{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     email,
		Password:  testPassword,
	})
	require.NoError(t, err)
	return user
}

type testConfig struct {
	signingKey       string
	tokenExpiration  int
	issuer           string
	openRegistration bool
	firstAdmin       profile.FirstAdmin
}

var _ profile.Config = (*testConfig)(nil)

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetSigningMethod() string          { return "HS256" }
func (c testConfig) GetContextKey() string             { return "access_token" }
func (c testConfig) GetTokenExpiration() int           { return c.tokenExpiration }
func (c testConfig) GetIssuer() string                 { return c.issuer }
func (c testConfig) GetDatabaseDSN() string            { return ":memory:" }
func (c testConfig) GetDomain() string                 { return "http://localhost" }
func (c testConfig) GetOpenRegistration() bool         { return c.openRegistration }
func (c testConfig) GetFirstAdmin() profile.FirstAdmin { return c.firstAdmin }

type testIdentity struct {
	id       string
	username string
	email    string
	role     string
}

var _ profile.Identity = testIdentity{}

func (i testIdentity) ID() string       { return i.id }
func (i testIdentity) Username() string { return i.username }
func (i testIdentity) Email() string    { return i.email }
func (i testIdentity) Role() string     { return i.role }
