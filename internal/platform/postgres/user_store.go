// Package postgres provides PostgreSQL-backed store implementations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/platform/logger"
	"github.com/joel-arnold/accounts-api/internal/store"
)

// userColumns is the column list shared by every user query.
const userColumns = "id, name, email, hashed_password, created_at, updated_at, deleted_at"

// UserStore implements store.UserStore using a PostgreSQL database.
// Soft-delete visibility is expressed directly in each query's WHERE clause
// via the explicit includeDeleted parameter; there is no implicit filter.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a PostgreSQL implementation of store.UserStore. It
// accepts a connection or transaction managed by the caller. If log is nil,
// a default logger is used.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create. A unique violation from the
// partial index on active emails is mapped to store.ErrEmailExists, which
// settles the race between an availability pre-check and the insert.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (name, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate active email on insert", "email", user.Email)
			return store.ErrEmailExists
		}
		log.Error("failed to create user", "error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	return s.scanUser(ctx, query, id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string, includeDeleted bool) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	// Soft-deleted rows may share an email; prefer the active row, then the
	// most recent.
	query += " ORDER BY (deleted_at IS NULL) DESC, id DESC LIMIT 1"

	return s.scanUser(ctx, query, email)
}

// FindAnyByEmail implements store.UserStore.FindAnyByEmail.
func (s *UserStore) FindAnyByEmail(ctx context.Context, email string, excludingID int64) (*domain.User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE email = $1 AND id <> $2 ORDER BY (deleted_at IS NULL) DESC, id DESC LIMIT 1",
		userColumns,
	)

	return s.scanUser(ctx, query, email, excludingID)
}

// EmailAvailable implements store.UserStore.EmailAvailable. Only an active
// row blocks the email; a soft-deleted holder allows reuse.
func (s *UserStore) EmailAvailable(ctx context.Context, email string, excludingID int64) error {
	existing, err := s.FindAnyByEmail(ctx, email, excludingID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	if !existing.IsDeleted() {
		return store.ErrEmailExists
	}

	return nil
}

// Update implements store.UserStore.Update. Only the patch's non-nil fields
// appear in the SET clause; updated_at is always refreshed. When the email
// changes, uniqueness among active users is re-checked first and the
// partial index backstops the race.
func (s *UserStore) Update(ctx context.Context, id int64, patch store.UserPatch) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return s.GetByID(ctx, id, false)
	}

	if patch.Email != nil {
		if err := s.EmailAvailable(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	sets := []string{}
	args := []any{}
	arg := 1

	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", arg))
		args = append(args, *patch.Name)
		arg++
	}
	if patch.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", arg))
		args = append(args, *patch.Email)
		arg++
	}
	if patch.HashedPassword != nil {
		sets = append(sets, fmt.Sprintf("hashed_password = $%d", arg))
		args = append(args, *patch.HashedPassword)
		arg++
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", arg))
	args = append(args, time.Now().UTC())
	arg++

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $%d AND deleted_at IS NULL RETURNING %s",
		strings.Join(sets, ", "),
		arg,
		userColumns,
	)

	user, err := s.scanUser(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err) || errors.Is(err, store.ErrDuplicate) {
			return nil, store.ErrEmailExists
		}
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	return user, nil
}

// SoftDelete implements store.UserStore.SoftDelete.
func (s *UserStore) SoftDelete(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		UPDATE users
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING %s
	`, userColumns)

	user, err := s.scanUser(ctx, query, time.Now().UTC(), id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to soft-delete user", "error", err, "user_id", id)
		return nil, err
	}

	return user, nil
}

// List implements store.UserStore.List.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM users WHERE deleted_at IS NULL ORDER BY id", userColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list users", "error", err)
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var deletedAt sql.NullTime
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.HashedPassword,
			&user.CreatedAt,
			&user.UpdatedAt,
			&deletedAt,
		); err != nil {
			return nil, MapError(err)
		}
		if deletedAt.Valid {
			t := deletedAt.Time
			user.DeletedAt = &t
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return users, nil
}

// scanUser runs a single-row user query and maps the result.
func (s *UserStore) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	var deletedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}

	if deletedAt.Valid {
		t := deletedAt.Time
		user.DeletedAt = &t
	}

	return &user, nil
}
