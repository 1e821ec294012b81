package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joel-arnold/accounts-api/internal/mocks"
	"github.com/joel-arnold/accounts-api/internal/service/auth"
	"github.com/joel-arnold/accounts-api/internal/store"
)

// fakeHasher avoids bcrypt's deliberate slowness in service tests. Hashing
// behavior itself is covered by the auth package tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *mocks.MemoryUserStore, auth.TokenService) {
	t.Helper()

	users := mocks.NewMemoryUserStore()
	tokens := auth.NewTestTokenService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)
	hasher := fakeHasher{}

	return NewService(users, tokens, hasher, hasher, nil), users, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc, _, tokens := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Equal(t, int64(1), reg.User.ID)
	assert.Equal(t, "Ana", reg.User.Name)
	assert.Equal(t, "ana@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)

	login, err := svc.Login(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	// Both tokens resolve to the same user.
	regID, err := tokens.ValidateToken(ctx, reg.Token)
	require.NoError(t, err)
	loginID, err := tokens.ValidateToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, regID, loginID)
	assert.Equal(t, reg.User.ID, regID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Impostor", "ana@x.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// After soft delete the email becomes reusable.
	_, err = svc.DeleteUser(ctx, first.User.ID)
	require.NoError(t, err)

	second, err := svc.Register(ctx, "Ana2", "ana@x.com", "secret2")
	require.NoError(t, err)
	assert.NotEqual(t, first.User.ID, second.User.ID)
}

func TestRegisterPersistTimeConflict(t *testing.T) {
	t.Parallel()

	// Simulates the uniqueness race: the pre-check passes but the insert
	// hits the storage constraint.
	users := mocks.NewMemoryUserStore()
	users.CreateErr = store.ErrEmailExists
	tokens := auth.NewTestTokenService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)
	hasher := fakeHasher{}
	svc := NewService(users, tokens, hasher, hasher, nil)

	_, err := svc.Register(context.Background(), "Ana", "ana@x.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPassErr := svc.Login(ctx, "ana@x.com", "wrong")
	_, unknownEmailErr := svc.Login(ctx, "nobody@x.com", "secret1")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr, unknownEmailErr)
}

func TestLoginIgnoresSoftDeletedUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.DeleteUser(ctx, reg.User.ID)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ana@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	t.Run("valid token resolves user", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, reg.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, user.ID)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for deleted user is unauthorized, not not-found", func(t *testing.T) {
		_, err := svc.DeleteUser(ctx, reg.User.ID)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, reg.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ana, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	bob, err := svc.Register(ctx, "Bob", "bob@x.com", "secret2")
	require.NoError(t, err)

	t.Run("rename only", func(t *testing.T) {
		name := "Roberto"
		updated, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Roberto", updated.Name)
		assert.Equal(t, "bob@x.com", updated.Email)
	})

	t.Run("email of another active user is taken", func(t *testing.T) {
		email := "ana@x.com"
		_, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{Email: &email})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		email := "bob@x.com"
		_, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{Email: &email})
		require.NoError(t, err)
	})

	t.Run("email of a soft-deleted user is reusable", func(t *testing.T) {
		_, err := svc.DeleteUser(ctx, ana.User.ID)
		require.NoError(t, err)

		email := "ana@x.com"
		updated, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "ana@x.com", updated.Email)
	})

	t.Run("password change rehashes and affects login", func(t *testing.T) {
		password := "newsecret"
		_, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{Password: &password})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "ana@x.com", "secret2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		login, err := svc.Login(ctx, "ana@x.com", "newsecret")
		require.NoError(t, err)
		assert.Equal(t, bob.User.ID, login.User.ID)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, bob.User.ID, UpdateInput{})
		assert.ErrorIs(t, err, ErrEmptyUpdate)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.UpdateUser(ctx, 999, UpdateInput{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	svc, users, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.False(t, deleted.UpdatedAt.Before(*deleted.DeletedAt))

	// The row is still physically present.
	raw, err := users.GetByID(ctx, reg.User.ID, true)
	require.NoError(t, err)
	assert.True(t, raw.IsDeleted())

	// But invisible to active lookups.
	_, err = svc.GetUser(ctx, reg.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Deleting twice reports not found.
	_, err = svc.DeleteUser(ctx, reg.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	ana, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "bob@x.com", "secret2")
	require.NoError(t, err)

	_, err = svc.DeleteUser(ctx, ana.User.ID)
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}

// TestAccountLifecycleScenario walks the full scenario: register, fail a
// login with a wrong password, soft-delete, then re-register the same
// email under a new identity.
func TestAccountLifecycleScenario(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Ana", "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reg.User.ID)
	assert.Equal(t, "Ana", reg.User.Name)
	assert.Equal(t, "ana@x.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)

	_, err = svc.Login(ctx, "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.DeleteUser(ctx, reg.User.ID)
	require.NoError(t, err)

	second, err := svc.Register(ctx, "Ana2", "ana@x.com", "secret2")
	require.NoError(t, err)
	assert.NotEqual(t, reg.User.ID, second.User.ID)
	assert.Equal(t, "ana@x.com", second.User.Email)
}
