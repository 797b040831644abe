package profile

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvConfig is the environment-backed Config implementation. It is loaded
// once at process start and passed explicitly to every component that needs
// it.
type EnvConfig struct {
	SigningKey       string
	SigningMethod    string
	ContextKey       string
	TokenExpiration  int
	Issuer           string
	DatabaseDSN      string
	Domain           string
	OpenRegistration bool
	FirstAdmin       FirstAdmin
}

var _ Config = (*EnvConfig)(nil)

// LoadConfig reads configuration from the environment, optionally seeded from
// the given dotenv files. Missing files are not an error so production can
// run on plain env vars.
func LoadConfig(envFiles ...string) (*EnvConfig, error) {
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &EnvConfig{
		SigningKey:       os.Getenv("SECRET_KEY"),
		SigningMethod:    envOr("ALGORITHM", "HS256"),
		ContextKey:       envOr("TOKEN_CONTEXT_KEY", "access_token"),
		TokenExpiration:  envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		Issuer:           os.Getenv("TOKEN_ISSUER"),
		DatabaseDSN:      os.Getenv("DATABASE_DSN"),
		Domain:           os.Getenv("DOMAIN"),
		OpenRegistration: envBool("USERS_OPEN_REGISTRATION", false),
		FirstAdmin: FirstAdmin{
			FirstName: os.Getenv("FIRST_SUPER_ADMIN_FIRST_NAME"),
			LastName:  os.Getenv("FIRST_SUPER_ADMIN_LAST_NAME"),
			Username:  os.Getenv("FIRST_SUPER_ADMIN_USERNAME"),
			Email:     os.Getenv("FIRST_SUPER_ADMIN_EMAIL"),
			Password:  os.Getenv("FIRST_SUPER_ADMIN_PASSWORD"),
		},
	}

	return cfg, nil
}

func (c *EnvConfig) GetSigningKey() string     { return c.SigningKey }
func (c *EnvConfig) GetSigningMethod() string  { return c.SigningMethod }
func (c *EnvConfig) GetContextKey() string     { return c.ContextKey }
func (c *EnvConfig) GetTokenExpiration() int   { return c.TokenExpiration }
func (c *EnvConfig) GetIssuer() string         { return c.Issuer }
func (c *EnvConfig) GetDatabaseDSN() string    { return c.DatabaseDSN }
func (c *EnvConfig) GetDomain() string         { return c.Domain }
func (c *EnvConfig) GetOpenRegistration() bool { return c.OpenRegistration }
func (c *EnvConfig) GetFirstAdmin() FirstAdmin { return c.FirstAdmin }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1", "t", "true", "y", "yes", "on":
		return true
	case "0", "f", "false", "n", "no", "off":
		return false
	default:
		return def
	}
}
