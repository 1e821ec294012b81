package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/joel-arnold/accounts-api/internal/api/shared"
	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/service/account"
)

// Authenticator resolves a bearer token to a user. Implemented by
// account.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware guards routes behind bearer-token authentication and puts
// the resolved user into the request context.
type AuthMiddleware struct {
	accounts Authenticator
}

// NewAuthMiddleware creates an AuthMiddleware over the given authenticator.
func NewAuthMiddleware(accounts Authenticator) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

// Authenticate validates the Authorization header, loads the user and
// continues with the user in context. All authentication failures answer
// 401 without surfacing the reason.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		user, err := m.accounts.Authenticate(r.Context(), parts[1])
		if err != nil {
			if errors.Is(err, account.ErrUnauthorized) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromRequest extracts the authenticated user placed in the context by
// Authenticate. Returns nil, false if absent.
func UserFromRequest(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
