package profile

import (
	"context"
	"net/mail"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profile/repository"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// DefaultPhoneRegion resolves national phone numbers to E.164.
var DefaultPhoneRegion = "PL"

// Users is the accounts repository.
type Users interface {
	repository.Repository[*User]

	GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error)

	Authenticate(ctx context.Context, identifier, password string) (*User, error)
	AuthenticateTx(ctx context.Context, tx bun.IDB, identifier, password string) (*User, error)

	Register(ctx context.Context, input NewUser) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, input NewUser) (*User, error)

	Patch(ctx context.Context, existing *User, patch UserPatch) (*User, error)
	PatchTx(ctx context.Context, tx bun.IDB, existing *User, patch UserPatch) (*User, error)

	ChangePassword(ctx context.Context, user *User, current, next string) (*User, error)
	ChangePasswordTx(ctx context.Context, tx bun.IDB, user *User, current, next string) (*User, error)

	SetPicture(ctx context.Context, user *User, pictureURL string) (*User, error)
	SetPictureTx(ctx context.Context, tx bun.IDB, user *User, pictureURL string) (*User, error)
	ClearPicture(ctx context.Context, user *User) (*User, error)
	ClearPictureTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

// NewUser is the input for account creation.
type NewUser struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Phone     string
	Password  string
	Role      UserRole
	// UseHashid derives a deterministic account UUID from the email.
	UseHashid bool
}

// UserPatch is a partial account update. Nil fields stay untouched. A
// plaintext Password is strength-checked and substituted with its hash before
// anything is persisted.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Username    *string
	Email       *string
	Phone       *string
	Description *string
	Password    *string
	IsActive    *bool

	passwordHash string
	picture      *string
}

var _ repository.Patch[*User] = UserPatch{}

// Apply copies the present fields onto the record.
func (p UserPatch) Apply(u *User) {
	if u == nil {
		return
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.passwordHash != "" {
		u.PasswordHash = p.passwordHash
	}
	if p.picture != nil {
		u.ProfilePicture = *p.picture
	}
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository builds the accounts repository.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		Columns: []string{
			"id", "role", "first_name", "last_name", "username",
			"email", "phone_number", "is_active", "description",
		},
		Relations: []repository.Relation{
			{
				Name:    "Tiles",
				Kind:    repository.RelationDirect,
				Table:   "tiles",
				Alias:   "tile",
				JoinOn:  "tile.user_id = ?TableAlias.id",
				Columns: []string{"id", "type", "title", "url", "active", "position", "short_id"},
			},
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByUsername(ctx context.Context, username string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username, criteria...)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string, criteria ...repository.SelectCriteria) (*User, error) {
	criteria = append(criteria, repository.SelectBy("username", username))
	return a.Repository.GetByTx(ctx, tx, criteria...)
}

func (a *users) GetByEmail(ctx context.Context, email string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email, criteria...)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string, criteria ...repository.SelectCriteria) (*User, error) {
	criteria = append(criteria, repository.SelectBy("email", email))
	return a.Repository.GetByTx(ctx, tx, criteria...)
}

func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

// GetByIdentifierTx probes id, email, and username in that order, narrowing
// the probes to the shapes the identifier can take.
func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	for _, opt := range resolveUserIdentifier(identifier) {
		probe := append(append([]repository.SelectCriteria{}, criteria...), repository.SelectBy(opt.column, opt.value))

		record, err := a.Repository.GetByTx(ctx, tx, probe...)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}

	return nil, nil
}

func (a *users) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	return a.AuthenticateTx(ctx, a.db, identifier, password)
}

// AuthenticateTx verifies the credential pair. Identifiers containing "@" are
// treated as emails, everything else as usernames. Every failure mode returns
// (nil, nil) so callers cannot tell a missing account from a bad password.
func (a *users) AuthenticateTx(ctx context.Context, tx bun.IDB, identifier, password string) (*User, error) {
	var user *User
	var err error

	if strings.Contains(identifier, "@") {
		user, err = a.GetByEmailTx(ctx, tx, identifier)
	} else {
		user, err = a.GetByUsernameTx(ctx, tx, identifier)
	}

	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, nil
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, nil
	}

	return user, nil
}

func (a *users) Register(ctx context.Context, input NewUser) (*User, error) {
	return a.RegisterTx(ctx, a.db, input)
}

// RegisterTx creates an account: the password is strength-checked and hashed,
// the phone normalized, and defaults filled in. Duplicate usernames or emails
// surface as conflicts.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, input NewUser) (*User, error) {
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	phone, err := normalizePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	record := &User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     getUsername(input.Username, input.Email),
		Email:        input.Email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         input.Role,
	}

	if input.UseHashid {
		if id, err := hashidUUID(input.Email); err == nil {
			record.ID = id
		}
	}

	prepareUserDefaults(record)

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *users) Patch(ctx context.Context, existing *User, patch UserPatch) (*User, error) {
	return a.PatchTx(ctx, a.db, existing, patch)
}

func (a *users) PatchTx(ctx context.Context, tx bun.IDB, existing *User, patch UserPatch) (*User, error) {
	if patch.Password != nil {
		if err := ValidatePasswordStrength(*patch.Password); err != nil {
			return nil, err
		}

		hash, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		patch.passwordHash = hash
		patch.Password = nil
	}

	if patch.Phone != nil {
		phone, err := normalizePhone(*patch.Phone)
		if err != nil {
			return nil, err
		}
		patch.Phone = &phone
	}

	return a.Repository.UpdateTx(ctx, tx, existing, patch)
}

func (a *users) ChangePassword(ctx context.Context, user *User, current, next string) (*User, error) {
	return a.ChangePasswordTx(ctx, a.db, user, current, next)
}

// ChangePasswordTx rotates the password: the current one must verify and the
// new one must differ and pass the strength policy.
func (a *users) ChangePasswordTx(ctx context.Context, tx bun.IDB, user *User, current, next string) (*User, error) {
	if err := ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if current == next {
		return nil, ErrPasswordUnchanged
	}

	return a.PatchTx(ctx, tx, user, UserPatch{Password: &next})
}

func (a *users) SetPicture(ctx context.Context, user *User, pictureURL string) (*User, error) {
	return a.SetPictureTx(ctx, a.db, user, pictureURL)
}

func (a *users) SetPictureTx(ctx context.Context, tx bun.IDB, user *User, pictureURL string) (*User, error) {
	return a.Repository.UpdateTx(ctx, tx, user, UserPatch{picture: &pictureURL})
}

func (a *users) ClearPicture(ctx context.Context, user *User) (*User, error) {
	return a.ClearPictureTx(ctx, a.db, user)
}

func (a *users) ClearPictureTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	empty := ""
	return a.Repository.UpdateTx(ctx, tx, user, UserPatch{picture: &empty})
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	record.IsActive = true

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

// normalizePhone stores phone numbers in E.164. Empty values pass through;
// anything unparseable is a validation error.
func normalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(phone, DefaultPhoneRegion)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid phone number").
			WithTextCode("INVALID_PHONE")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithTextCode("INVALID_PHONE")
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 3)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  trimmed,
		})
	}

	options = append(options, identifierOption{
		column: "username",
		value:  trimmed,
	})

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
