package profile

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// LoggedInCookie is the marker cookie client-side code can read to tell
// whether a session exists. It carries no credential.
const LoggedInCookie = "is_logged_in"

// RouteAuthenticator wires the authenticator to fiber's cookie transport. The
// credential travels in an HTTP-only cookie named by Config.GetContextKey;
// the marker cookie stays readable by scripts.
type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Debug          bool
	Logger         Logger
}

func NewRouteAuthenticator(auther Authenticator, cfg Config) *RouteAuthenticator {
	cookieDuration := time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Minute
	}

	return &RouteAuthenticator{
		auth:           auther,
		cfg:            cfg,
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login authenticates the payload and sets the session cookies.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, payload LoginPayload) error {
	token, err := a.auth.Login(c.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return err
	}

	if a.Debug {
		a.Logger.Debug("login session %s", print.MaybePrettyJSON(map[string]any{
			"identifier": payload.GetIdentifier(),
		}))
	}

	a.setCookieToken(c, token, a.cookieDuration)
	return nil
}

// Logout clears the session cookies.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetContextKey())
	a.cookieDel(c, LoggedInCookie)
}

// CredentialFromCookie extracts the raw token, empty when absent.
func (a *RouteAuthenticator) CredentialFromCookie(c *fiber.Ctx) string {
	return c.Cookies(a.cfg.GetContextKey())
}

// SessionFromCookie decodes the cookie-carried session.
func (a *RouteAuthenticator) SessionFromCookie(c *fiber.Ctx) (Session, error) {
	credential := a.CredentialFromCookie(c)
	if credential == "" {
		return nil, ErrNoCredential
	}
	return a.auth.SessionFromToken(credential)
}

// MakeAuthErrorHandler maps resolution failures to responses. With optional
// auth the request continues anonymously.
func (a *RouteAuthenticator) MakeAuthErrorHandler(optional bool) func(*fiber.Ctx, error) error {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
				WithCode(errors.CodeUnauthorized)
		}

		if optional {
			a.Logger.Info("Optional auth failed, proceeding", "error", richErr.Message)
			return c.Next()
		}

		status := richErr.Code
		if status == 0 {
			status = fiber.StatusUnauthorized
		}

		return c.Status(status).JSON(fiber.Map{
			"detail": richErr.Message,
		})
	}
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, duration time.Duration) {
	expires := time.Now().Add(duration)

	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	c.Cookie(&fiber.Cookie{
		Name:     LoggedInCookie,
		Value:    "true",
		Expires:  expires,
		HTTPOnly: false,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// LoginRequest is the login form payload
type LoginRequest struct {
	Identifier string `form:"username" json:"username"`
	Password   string `form:"password" json:"password"`
}

func (r LoginRequest) GetIdentifier() string { return r.Identifier }
func (r LoginRequest) GetPassword() string   { return r.Password }

var _ LoginPayload = LoginRequest{}

// Validate will validate the payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, validation.Length(3, 128)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

// RegisterRequest is the registration form payload
type RegisterRequest struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Phone     string `form:"phone_number" json:"phone_number"`
	Password  string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 32)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 32)),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 32)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 128), is.Email),
		validation.Field(&r.Phone, validation.Length(9, 16)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

// TileRequest is the tile create/update payload
type TileRequest struct {
	Type     string `form:"type" json:"type"`
	Title    string `form:"title" json:"title"`
	URL      string `form:"url" json:"url"`
	Active   *bool  `form:"active" json:"active"`
	Position int    `form:"position" json:"position"`
	IconURL  string `form:"icon_url" json:"icon_url"`
}

// Validate will validate the payload
func (r TileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.By(validTileType)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.URL, validation.Length(0, 2048)),
		validation.Field(&r.Position, validation.Min(0), validation.Max(TilePositionLimit-1)),
		validation.Field(&r.IconURL, validation.Length(0, 2048)),
	)
}

// Tile builds the model for the owning user.
func (r TileRequest) Tile(owner *User) *Tile {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &Tile{
		Type:     TileType(r.Type),
		Title:    r.Title,
		URL:      r.URL,
		Active:   active,
		Position: r.Position,
		IconURL:  r.IconURL,
		UserID:   owner.ID,
	}
}

func validTileType(value any) error {
	s, _ := value.(string)
	if !TileType(s).IsValid() {
		return errors.New("unknown tile type", errors.CategoryValidation)
	}
	return nil
}
