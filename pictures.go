package profile

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-profile/storage"
)

// PictureService coordinates the picture store and the users repository.
type PictureService struct {
	users  Users
	store  storage.PictureStore
	logger Logger
}

// NewPictureService builds the picture flow over a store and the repository.
func NewPictureService(users Users, store storage.PictureStore) *PictureService {
	return &PictureService{
		users:  users,
		store:  store,
		logger: defLogger{},
	}
}

func (p *PictureService) WithLogger(l Logger) *PictureService {
	if l != nil {
		p.logger = l
	}
	return p
}

// SetUserPicture saves the picture and records its public URL on the
// account. A crash between the two steps can orphan the stored file; the
// next save replaces it.
func (p *PictureService) SetUserPicture(ctx context.Context, user *User, filename string, contents []byte) (*User, error) {
	url, err := p.store.Save(ctx, user.ID, filename, contents)
	if err != nil {
		p.logger.Error("failed to store user picture", "user_id", user.ID.String(), "error", err)
		return nil, goerrors.Wrap(err, ErrStorageFailure.Category, ErrStorageFailure.Message).
			WithTextCode(ErrStorageFailure.TextCode)
	}

	return p.users.SetPicture(ctx, user, url)
}

// RemoveUserPicture deletes the stored picture and clears the account URL.
// Nothing stored is not an error.
func (p *PictureService) RemoveUserPicture(ctx context.Context, user *User) (*User, error) {
	if err := p.store.Delete(ctx, user.ID); err != nil && !storage.IsNotFound(err) {
		p.logger.Error("failed to delete user picture", "user_id", user.ID.String(), "error", err)
		return nil, goerrors.Wrap(err, ErrStorageFailure.Category, ErrStorageFailure.Message).
			WithTextCode(ErrStorageFailure.TextCode)
	}

	return p.users.ClearPicture(ctx, user)
}

// DeleteAccount removes the user's stored picture, then the account row.
// Tile rows go with the account through the schema-level cascade.
func (p *PictureService) DeleteAccount(ctx context.Context, user *User) error {
	if err := p.store.Delete(ctx, user.ID); err != nil && !storage.IsNotFound(err) {
		return goerrors.Wrap(err, ErrStorageFailure.Category, ErrStorageFailure.Message).
			WithTextCode(ErrStorageFailure.TextCode)
	}

	return p.users.Remove(ctx, user)
}
