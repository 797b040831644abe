package profile

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a self-service registration request.
type RegisterUserMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	UseHashid bool
	// OnResponse receives the created account.
	OnResponse func(*User)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler performs self-service registrations. Accounts created
// here always get the USER role; the open-registration gate can switch the
// whole flow off.
type RegisterUserHandler struct {
	repo RepositoryManager
	gate *FeatureGate
}

// NewRegisterUserHandler builds the handler. A nil gate leaves registration
// open.
func NewRegisterUserHandler(repo RepositoryManager, gate *FeatureGate) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo: repo,
		gate: gate,
	}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	if !h.gate.Enabled(FeatureOpenRegistration) {
		return ErrFeatureDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var user *User

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if existing, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err != nil {
			return err
		} else if existing != nil {
			return goerrors.New("the user with this email already exists", goerrors.CategoryConflict).
				WithTextCode("EMAIL_TAKEN")
		}

		if existing, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.Username); err != nil {
			return err
		} else if existing != nil {
			return goerrors.New("username already exists", goerrors.CategoryConflict).
				WithTextCode("USERNAME_TAKEN")
		}

		var err error
		user, err = h.repo.Users().RegisterTx(ctx, tx, NewUser{
			FirstName: event.FirstName,
			LastName:  event.LastName,
			Username:  event.Username,
			Email:     event.Email,
			Phone:     event.Phone,
			Password:  event.Password,
			Role:      RoleUser,
			UseHashid: event.UseHashid,
		})
		return err
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}
