package repository

import (
	"database/sql"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// NewRecordNotFound builds the not-found error point lookups with required
// presence return.
func NewRecordNotFound() *goerrors.Error {
	return goerrors.New("record not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode("RECORD_NOT_FOUND")
}

// IsRecordNotFound reports whether err is a missing-row condition, either the
// driver's sql.ErrNoRows or a not-found category error.
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return goerrors.IsNotFound(err)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryConflict
	}
	return false
}

// uniqueViolationMarkers covers sqlite and postgres wordings.
var uniqueViolationMarkers = []string{
	"UNIQUE constraint failed",
	"duplicate key value violates unique constraint",
}

// wrapWriteError maps store-level unique violations to a conflict error so the
// loser of a concurrent insert race gets a correct answer instead of a bare
// driver error. Other errors pass through untouched.
func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	for _, marker := range uniqueViolationMarkers {
		if strings.Contains(err.Error(), marker) {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "record already exists").
				WithTextCode("RECORD_CONFLICT")
		}
	}
	return err
}
