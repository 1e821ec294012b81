package api

import (
	"log/slog"
	"net/http"

	"github.com/joel-arnold/accounts-api/internal/api/middleware"
	"github.com/joel-arnold/accounts-api/internal/api/shared"
	"github.com/joel-arnold/accounts-api/internal/service/account"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	accounts *account.Service
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// If log is nil, the process default logger is used.
func NewAuthHandler(accounts *account.Service, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		logger:   log.With(slog.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, AuthData{
		User:  NewAuthUser(result.User),
		Token: result.Token,
	}, "User registered successfully")
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, AuthData{
		User:  NewAuthUser(result.User),
		Token: result.Token,
	}, "Login successful")
}

// Profile handles GET /api/auth/profile (protected). The authenticated user
// is resolved by the middleware.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewAuthUser(user), "Profile retrieved successfully")
}

// Verify handles GET /api/auth/verify (protected). Reaching this handler
// means the middleware already accepted the token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, VerifyData{
		Valid: true,
		User:  NewAuthUser(user),
	}, "Token is valid")
}
