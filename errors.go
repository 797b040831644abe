package profile

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrNoEmptyString is returned when a required string value is blank
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput).
	WithTextCode("EMPTY_STRING")

// ErrMismatchedHashAndPassword is the uniform credential failure: unknown
// identifier and wrong password are indistinguishable to callers
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrNoCredential means the request carried no token at all
var ErrNoCredential = errors.New("no credential provided", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("NO_CREDENTIAL")

// ErrTokenExpired marks tokens past their expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed marks tokens that fail parsing or signature checks
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrUnableToDecodeSession unable to decode claims from a validated token
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("SESSION_DECODE")

// ErrInactiveAccount blocks deactivated accounts from authenticating
var ErrInactiveAccount = errors.New("inactive user", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INACTIVE_ACCOUNT")

// ErrForbidden is returned when the caller lacks the required role
var ErrForbidden = errors.New("insufficient privileges", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("FORBIDDEN")

// ErrFeatureDisabled is returned by gated operations that are switched off
var ErrFeatureDisabled = errors.New("endpoint temporarily disabled", errors.CategoryAuthz).
	WithTextCode("FEATURE_DISABLED")

// ErrWeakPassword rejects passwords that fail the strength policy
var ErrWeakPassword = errors.New(
	"password must contain at least one lowercase letter, one uppercase letter, one number, one special character, and be at least 8 characters long",
	errors.CategoryValidation).
	WithTextCode("WEAK_PASSWORD")

// ErrPasswordUnchanged rejects a password change to the current password
var ErrPasswordUnchanged = errors.New("new password must differ from the current password", errors.CategoryValidation).
	WithTextCode("PASSWORD_UNCHANGED")

// ErrStorageFailure wraps picture store failures
var ErrStorageFailure = errors.New("picture storage operation failed", errors.CategoryInternal).
	WithCode(errors.CodeInternal).
	WithTextCode("STORAGE_FAILURE")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
