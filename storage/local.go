package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LocalConfig holds the local filesystem picture store configuration
type LocalConfig struct {
	// BasePath is the root directory for static files
	BasePath string
	// Domain is the public base URL serving BasePath under /static
	Domain string
}

// LocalStore keeps pictures on the local filesystem, one directory per
// owner under {BasePath}/users/pictures/{ownerID}.
type LocalStore struct {
	basePath string
	domain   string
}

var _ PictureStore = (*LocalStore)(nil)

// NewLocal creates a local filesystem picture store
func NewLocal(cfg LocalConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create storage directory")
	}

	return &LocalStore{
		basePath: cfg.BasePath,
		domain:   strings.TrimSuffix(cfg.Domain, "/"),
	}, nil
}

// Save writes the picture, replacing any previous picture the owner had,
// and returns its public URL.
func (s *LocalStore) Save(ctx context.Context, ownerID uuid.UUID, filename string, contents []byte) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", goerrors.New("invalid picture filename", goerrors.CategoryBadInput)
	}

	dir := s.ownerDir(ownerID)

	if _, err := os.Stat(dir); err == nil {
		if err := s.Delete(ctx, ownerID); err != nil && !IsNotFound(err) {
			return "", err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create picture directory")
	}

	if err := os.WriteFile(filepath.Join(dir, name), contents, 0o644); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to save user picture")
	}

	return fmt.Sprintf("%s/static/users/pictures/%s/%s", s.domain, ownerID, name), nil
}

// Delete removes the owner's picture directory.
func (s *LocalStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	dir := s.ownerDir(ownerID)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrPictureNotFound
	}

	if err := os.RemoveAll(dir); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user picture")
	}

	return nil
}

func (s *LocalStore) ownerDir(ownerID uuid.UUID) string {
	return filepath.Join(s.basePath, "users", "pictures", ownerID.String())
}

// sanitizeFilename strips path components so a crafted filename cannot
// escape the owner's directory.
func sanitizeFilename(filename string) string {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.Contains(name, "..") {
		return ""
	}
	return name
}
