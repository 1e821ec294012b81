package api

import (
	"errors"
	"net/http"

	"github.com/joel-arnold/accounts-api/internal/api/shared"
	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/service/account"
)

// HandleServiceError maps an account service error to an HTTP response.
// Known domain errors get their mapped status and message; anything else is
// an internal error and is logged in full but reported generically.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrEmailTaken):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Email is already registered")
	case errors.Is(err, account.ErrInvalidCredentials):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, account.ErrUnauthorized), errors.Is(err, domain.ErrUnauthorized):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, account.ErrUserNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, account.ErrEmptyUpdate):
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one field must be provided")
	case isDomainValidationError(err):
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error", err)
	}
}

// isDomainValidationError reports whether err is one of the domain's field
// validation sentinels, whose messages are safe to show callers.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmptyName,
		domain.ErrNameTooShort,
		domain.ErrNameTooLong,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrValidation,
		domain.ErrInvalidID,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
