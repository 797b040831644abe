// Package storage provides picture stores for user profile pictures.
package storage

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrPictureNotFound is returned by Delete when the owner has no picture.
var ErrPictureNotFound = goerrors.New("user picture not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode("PICTURE_NOT_FOUND")

// PictureStore persists one picture per owner. Save replaces whatever the
// owner had before and returns the public URL of the new picture.
type PictureStore interface {
	Save(ctx context.Context, ownerID uuid.UUID, filename string, contents []byte) (string, error)
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

// IsNotFound reports whether err means there was no picture to act on.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.IsNotFound(err)
}
