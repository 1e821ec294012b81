package api

import (
	"time"

	"github.com/joel-arnold/accounts-api/internal/domain"
)

// Request/response structures

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateUserRequest defines the payload for the user update endpoint. All
// fields are optional but at least one must be present.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// AuthData is the success payload of the registration and login endpoints.
type AuthData struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

// AuthUser is the compact user projection embedded in AuthData.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VerifyData is the success payload of the token verification endpoint.
type VerifyData struct {
	Valid bool     `json:"valid"`
	User  AuthUser `json:"user"`
}

// NewUserResponse builds the public projection of a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

// NewUserResponses builds public projections for a list of users.
func NewUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// NewAuthUser builds the compact auth projection of a user.
func NewAuthUser(u *domain.User) AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
