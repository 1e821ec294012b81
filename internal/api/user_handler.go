package api

import (
	"log/slog"
	"net/http"

	"github.com/joel-arnold/accounts-api/internal/api/shared"
	"github.com/joel-arnold/accounts-api/internal/service/account"
)

// UserHandler handles user management API requests. All of its routes sit
// behind the authentication middleware.
type UserHandler struct {
	accounts *account.Service
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
// If log is nil, the process default logger is used.
func NewUserHandler(accounts *account.Service, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		accounts: accounts,
		logger:   log.With(slog.String("handler", "user")),
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithList(w, r, http.StatusOK, NewUserResponses(users), "")
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	user, err := h.accounts.GetUser(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewUserResponse(user), "")
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), id, account.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewUserResponse(user), "User updated successfully")
}

// Delete handles DELETE /api/users/{id} (soft delete).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	user, err := h.accounts.DeleteUser(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, NewUserResponse(user), "User deleted successfully")
}
