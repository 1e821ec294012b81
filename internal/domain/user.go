package domain

import (
	"errors"
	"regexp"
	"time"
)

// Common validation errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooShort     = errors.New("name must be at least 2 characters long")
	ErrNameTooLong      = errors.New("name must be at most 100 characters long")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
)

// emailPattern is a deliberately loose format check: something before an @,
// something after, and a dot in the domain part. Deliverability is not this
// layer's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents an account row. A user with a non-nil DeletedAt is
// soft-deleted: the row stays in storage but the account is inactive and its
// email may be claimed by a new registration.
type User struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"` // never serialized
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// NewUser builds a User from registration input. The ID is assigned by the
// store on insert; the caller must hash the password before persisting.
func NewUser(name, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the User's fields against the account invariants.
func (u *User) Validate() error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// IsDeleted reports whether the user has been soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// ValidateName checks display-name length bounds.
func ValidateName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case len(name) < 2:
		return ErrNameTooShort
	case len(name) > 100:
		return ErrNameTooLong
	}
	return nil
}

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks plaintext password length bounds. The upper bound
// is bcrypt's practical input limit.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < 6:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	}
	return nil
}
