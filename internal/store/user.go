package store

import (
	"context"
	"database/sql"

	"github.com/joel-arnold/accounts-api/internal/domain"
)

// UserPatch describes a partial update to a user. Nil fields are left
// untouched. HashedPassword must already be hashed by the caller.
type UserPatch struct {
	Name           *string
	Email          *string
	HashedPassword *string
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.HashedPassword == nil
}

// UserStore defines the interface for user persistence, including the
// soft-delete visibility policy. Query methods take an explicit
// includeDeleted flag instead of relying on an implicit global filter, so
// each call site states which rows it can see.
type UserStore interface {
	// Create saves a new user and assigns its ID and timestamps.
	// Returns ErrEmailExists if an active user already holds the email;
	// a storage-level unique violation is mapped to the same error so a
	// race between the availability check and the insert cannot slip
	// through.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. When includeDeleted is false,
	// soft-deleted rows are treated as absent.
	// Returns ErrUserNotFound if no visible row matches.
	GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error)

	// GetByEmail retrieves a user by email. When includeDeleted is false,
	// only active rows are considered.
	// Returns ErrUserNotFound if no visible row matches.
	GetByEmail(ctx context.Context, email string, includeDeleted bool) (*domain.User, error)

	// FindAnyByEmail looks up a user by email including soft-deleted rows,
	// optionally skipping one ID (so an update-email uniqueness check does
	// not collide with the user being updated; pass 0 to skip nobody).
	// Returns ErrUserNotFound if nothing matches.
	FindAnyByEmail(ctx context.Context, email string, excludingID int64) (*domain.User, error)

	// EmailAvailable returns nil if the email may be claimed, or
	// ErrEmailExists if an active row other than excludingID already holds
	// it. A soft-deleted row holding the email does not block: reuse after
	// soft delete is allowed by policy.
	EmailAvailable(ctx context.Context, email string, excludingID int64) error

	// Update applies the non-nil fields of patch to an active user and
	// refreshes updated_at.
	// Returns ErrUserNotFound if the user does not exist or is deleted,
	// and ErrEmailExists if the patched email belongs to another active
	// user.
	Update(ctx context.Context, id int64, patch UserPatch) (*domain.User, error)

	// SoftDelete marks an active user as deleted by setting deleted_at and
	// updated_at. The row is kept.
	// Returns ErrUserNotFound if the user does not exist or is already
	// deleted.
	SoftDelete(ctx context.Context, id int64) (*domain.User, error)

	// List returns all active users ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction. The
	// transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
