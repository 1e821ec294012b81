package auth

import "errors"

// Common authentication service errors.
var (
	// ErrInvalidToken is the single error returned for every token
	// validation failure: expired, malformed, bad signature, wrong
	// algorithm. Collapsing the reasons prevents a caller from using the
	// distinction as an oracle.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
