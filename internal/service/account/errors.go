package account

import "errors"

// Domain errors returned by the account service. The HTTP layer maps these
// to status codes; anything not in this list is an internal error and is
// reported generically.
var (
	// ErrEmailTaken indicates an active user already holds the email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so a caller cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized indicates the bearer token failed validation or the
	// account it pointed at no longer exists.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserNotFound indicates the requested user does not exist or is
	// soft-deleted.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyUpdate indicates an update request carried no fields.
	ErrEmptyUpdate = errors.New("at least one field must be provided")
)
