package auth

import "github.com/goliatone/go-errors"

const (
	TextCodeEmailTaken      = "email_already_registered"
	TextCodeInvalidCode     = "invalid_token"
	TextCodeCodeNotFound    = "token_not_found"
	TextCodeTokenExpired    = "token_expired"
	TextCodeTokenMalformed  = "token_malformed"
	TextCodeNotConfirmed    = "account_not_confirmed"
	TextCodeInvalidCreds    = "invalid_credentials"
	TextCodeUserNotFound    = "user_not_found"
	TextCodeUnauthorized    = "unauthorized"
	TextCodeEmptyPassword   = "empty_password"
	TextCodeServerFault     = "server_fault"
)

// ErrEmailTaken is returned when a registration reuses an existing email.
var ErrEmailTaken = errors.New("an account with that email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrInvalidCode is returned when a confirmation code matches no account.
var ErrInvalidCode = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCode).
	WithCode(errors.CodeUnauthorized)

// ErrCodeNotFound is returned when a password reset code matches no account.
// Reset flows report the miss as 404 so the client can fall back to the
// request-a-new-code screen.
var ErrCodeNotFound = errors.New("invalid token", errors.CategoryNotFound).
	WithTextCode(TextCodeCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrUserNotFound is returned when no account exists for the given email.
var ErrUserNotFound = errors.New("no account exists for that email", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrAccountNotConfirmed is returned when an unconfirmed account attempts to
// authenticate.
var ErrAccountNotConfirmed = errors.New("account has not been confirmed", errors.CategoryAuth).
	WithTextCode(TextCodeNotConfirmed).
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials is returned when a password check fails.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned when a request carries no usable session, or the
// session references an account that no longer exists.
var ErrUnauthorized = errors.New("unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for session tokens past their validity window.
// Kept distinct from ErrTokenMalformed so clients can silently re-authenticate
// instead of prompting for credentials.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for session tokens that fail to parse or
// carry an invalid signature.
var ErrTokenMalformed = errors.New("invalid session token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrEmptyPassword is returned when a hash is requested for an empty string.
var ErrEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrServerFault is the generic fault surfaced to callers when persistence or
// mail transport fails in a way we do not classify. The message is fixed;
// details stay in server logs.
var ErrServerFault = errors.New("an unexpected server error occurred", errors.CategoryInternal).
	WithTextCode(TextCodeServerFault)
