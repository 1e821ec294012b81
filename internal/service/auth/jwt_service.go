package auth

import "context"

// TokenService defines operations for issuing and verifying bearer session
// tokens. Tokens are stateless: there is no revocation list, and a token
// stays valid until its natural expiration.
type TokenService interface {
	// GenerateToken creates a signed token embedding the user's ID and an
	// expiration. Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken checks the token's signature and expiration and
	// returns the embedded user ID. Every failure mode returns
	// ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (int64, error)
}
