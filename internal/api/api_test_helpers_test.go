package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	apimiddleware "github.com/joel-arnold/accounts-api/internal/api/middleware"
	"github.com/joel-arnold/accounts-api/internal/mocks"
	"github.com/joel-arnold/accounts-api/internal/service/account"
	"github.com/joel-arnold/accounts-api/internal/service/auth"
)

// testHasher keeps handler tests fast; bcrypt behavior is covered in the
// auth package.
type testHasher struct{}

func (testHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (testHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// envelope mirrors shared.Envelope for decoding test responses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Total   *int            `json:"total"`
}

// newTestServer wires the full router surface over an in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *account.Service) {
	t.Helper()

	users := mocks.NewMemoryUserStore()
	tokens := auth.NewTestTokenService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)
	hasher := testHasher{}
	accounts := account.NewService(users, tokens, hasher, hasher, nil)

	authHandler := NewAuthHandler(accounts, nil)
	userHandler := NewUserHandler(accounts, nil)
	authMiddleware := apimiddleware.NewAuthMiddleware(accounts)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/auth/profile", authHandler.Profile)
			r.Get("/auth/verify", authHandler.Verify)
			r.Get("/users", userHandler.List)
			r.Get("/users/{id}", userHandler.Get)
			r.Put("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, accounts
}

// doJSON performs a JSON request against the test server and decodes the
// envelope.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp, env
}

// registerUser registers a user through the API and returns its token.
func registerUser(t *testing.T, srv *httptest.Server, name, email, password string) (AuthData, string) {
	t.Helper()

	resp, env := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var data AuthData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	return data, data.Token
}
