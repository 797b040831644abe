package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	profile "github.com/goliatone/go-profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "top-secret")
	t.Setenv("ALGORITHM", "")
	t.Setenv("TOKEN_CONTEXT_KEY", "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "")
	t.Setenv("USERS_OPEN_REGISTRATION", "")

	cfg, err := profile.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "top-secret", cfg.GetSigningKey())
	assert.Equal(t, "HS256", cfg.GetSigningMethod())
	assert.Equal(t, "access_token", cfg.GetContextKey())
	assert.Equal(t, 60, cfg.GetTokenExpiration())
	assert.False(t, cfg.GetOpenRegistration())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "top-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("USERS_OPEN_REGISTRATION", "true")
	t.Setenv("DOMAIN", "https://links.example.com")
	t.Setenv("FIRST_SUPER_ADMIN_USERNAME", "root")
	t.Setenv("FIRST_SUPER_ADMIN_EMAIL", "root@example.com")
	t.Setenv("FIRST_SUPER_ADMIN_PASSWORD", "Sup3r$ecret")

	cfg, err := profile.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.GetTokenExpiration())
	assert.True(t, cfg.GetOpenRegistration())
	assert.Equal(t, "https://links.example.com", cfg.GetDomain())
	assert.Equal(t, "root", cfg.GetFirstAdmin().Username)
	assert.Equal(t, "root@example.com", cfg.GetFirstAdmin().Email)
}

func TestLoadConfigDotenvFile(t *testing.T) {
	// godotenv never overrides variables that are already present, so make
	// sure these two are truly unset. t.Setenv registers the restore.
	t.Setenv("TOKEN_ISSUER", "")
	t.Setenv("DATABASE_DSN", "")
	require.NoError(t, os.Unsetenv("TOKEN_ISSUER"))
	require.NoError(t, os.Unsetenv("DATABASE_DSN"))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"TOKEN_ISSUER=dotenv-issuer\nDATABASE_DSN=file::memory:?cache=shared\n",
	), 0o644))

	cfg, err := profile.LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "dotenv-issuer", cfg.GetIssuer())
	assert.Equal(t, "file::memory:?cache=shared", cfg.GetDatabaseDSN())
}

func TestLoadConfigMissingDotenvFileIsFine(t *testing.T) {
	_, err := profile.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
