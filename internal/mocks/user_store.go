// Package mocks provides in-memory test doubles for the store interfaces.
package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/joel-arnold/accounts-api/internal/domain"
	"github.com/joel-arnold/accounts-api/internal/store"
)

// MemoryUserStore is an in-memory store.UserStore implementation with the
// same soft-delete visibility semantics as the PostgreSQL store, including
// active-email uniqueness enforced at insert time.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User

	// CreateErr, when set, is returned by Create to simulate persistence
	// failures.
	CreateErr error
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		nextID: 1,
		users:  make(map[int64]*domain.User),
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// Create implements store.UserStore.Create.
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Mirror of the partial unique index: active rows only.
	for _, existing := range s.users {
		if existing.Email == user.Email && !existing.IsDeleted() {
			return store.ErrEmailExists
		}
	}

	now := time.Now().UTC()
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = copyUser(user)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MemoryUserStore) GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || (!includeDeleted && user.IsDeleted()) {
		return nil, store.ErrUserNotFound
	}
	return copyUser(user), nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string, includeDeleted bool) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *domain.User
	for _, user := range s.users {
		if user.Email != email {
			continue
		}
		if !includeDeleted && user.IsDeleted() {
			continue
		}
		if best == nil || betterMatch(user, best) {
			best = user
		}
	}
	if best == nil {
		return nil, store.ErrUserNotFound
	}
	return copyUser(best), nil
}

// betterMatch prefers active rows, then higher IDs, mirroring the SQL
// ordering.
func betterMatch(candidate, current *domain.User) bool {
	if candidate.IsDeleted() != current.IsDeleted() {
		return !candidate.IsDeleted()
	}
	return candidate.ID > current.ID
}

// FindAnyByEmail implements store.UserStore.FindAnyByEmail.
func (s *MemoryUserStore) FindAnyByEmail(ctx context.Context, email string, excludingID int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *domain.User
	for _, user := range s.users {
		if user.Email != email || user.ID == excludingID {
			continue
		}
		if best == nil || betterMatch(user, best) {
			best = user
		}
	}
	if best == nil {
		return nil, store.ErrUserNotFound
	}
	return copyUser(best), nil
}

// EmailAvailable implements store.UserStore.EmailAvailable.
func (s *MemoryUserStore) EmailAvailable(ctx context.Context, email string, excludingID int64) error {
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

// Update implements store.UserStore.Update.
func (s *MemoryUserStore) Update(ctx context.Context, id int64, patch store.UserPatch) (*domain.User, error) {
	if patch.Email != nil {
		if err := s.EmailAvailable(ctx, *patch.Email, id); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || user.IsDeleted() {
		return nil, store.ErrUserNotFound
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.HashedPassword != nil {
		user.HashedPassword = *patch.HashedPassword
	}
	user.UpdatedAt = time.Now().UTC()

	return copyUser(user), nil
}

// SoftDelete implements store.UserStore.SoftDelete.
func (s *MemoryUserStore) SoftDelete(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || user.IsDeleted() {
		return nil, store.ErrUserNotFound
	}

	now := time.Now().UTC()
	user.DeletedAt = &now
	user.UpdatedAt = now

	return copyUser(user), nil
}

// List implements store.UserStore.List.
func (s *MemoryUserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []*domain.User
	for id := int64(1); id < s.nextID; id++ {
		if user, ok := s.users[id]; ok && !user.IsDeleted() {
			users = append(users, copyUser(user))
		}
	}
	return users, nil
}

// WithTx implements store.UserStore.WithTx. The in-memory store has no
// transactions; it returns itself.
func (s *MemoryUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}
