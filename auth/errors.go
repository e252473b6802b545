package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrTokenInvalid is the single opaque rejection for token verification.
// Every verification failure, revoked, expired, malformed, unknown or
// inactive user, collapses into this error so callers cannot tell which
// factor failed.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode("TOKEN_INVALID").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is the decode-level failure. It never crosses the
// SessionVerifier boundary; Verify maps it to ErrTokenInvalid.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// Login and registration rejections are deliberately specific: these are
// user-facing UX errors, unlike the opaque token verification path.
var (
	ErrMissingIdentifier = errors.New("username or email is required", errors.CategoryValidation).
				WithTextCode("MISSING_IDENTIFIER").
				WithCode(errors.CodeBadRequest)

	ErrMissingPassword = errors.New("password is required", errors.CategoryValidation).
				WithTextCode("MISSING_PASSWORD").
				WithCode(errors.CodeBadRequest)

	ErrPasswordMismatch = errors.New("passwords do not match", errors.CategoryValidation).
				WithTextCode("PASSWORD_MISMATCH").
				WithCode(errors.CodeBadRequest)

	ErrUserNotFound = errors.New("user not found", errors.CategoryAuth).
			WithTextCode("USER_NOT_FOUND").
			WithCode(errors.CodeNotFound)

	ErrInvalidPassword = errors.New("invalid password", errors.CategoryAuth).
				WithTextCode("INVALID_PASSWORD").
				WithCode(errors.CodeUnauthorized)

	ErrUserBanned = errors.New("account is banned", errors.CategoryAuth).
			WithTextCode("USER_BANNED").
			WithCode(errors.CodeForbidden)

	ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
			WithTextCode("EMAIL_TAKEN").
			WithCode(errors.CodeConflict)

	ErrUsernameTaken = errors.New("username already registered", errors.CategoryConflict).
				WithTextCode("USERNAME_TAKEN").
				WithCode(errors.CodeConflict)
)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_VALUE").
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithTextCode("PASSWORD_HASH_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
