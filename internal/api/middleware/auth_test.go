package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/service/account"
)

// stubAuthenticator resolves a single known token.
type stubAuthenticator struct {
	token string
	user  *domain.User
	err   error
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.token {
		return nil, account.ErrUnauthorized
	}
	return s.user, nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: 1, Name: "Ana", Email: "ana@x.com"}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := UserFromRequest(r)
		require.True(t, ok)
		assert.Equal(t, user.ID, got.ID)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		authErr    error
		wantStatus int
	}{
		{"valid bearer token", "Bearer good-token", nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"not a bearer scheme", "Basic abc123", nil, http.StatusUnauthorized},
		{"too many parts", "Bearer a b", nil, http.StatusUnauthorized},
		{"unknown token", "Bearer bad-token", nil, http.StatusUnauthorized},
		{"service failure", "Bearer good-token", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mw := NewAuthMiddleware(&stubAuthenticator{
				token: "good-token",
				user:  user,
				err:   tc.authErr,
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestUserFromRequestMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserFromRequest(req)
	assert.False(t, ok)
}
