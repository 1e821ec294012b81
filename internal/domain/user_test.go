package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid input", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("Ana", "ana@x.com", "some-hash")
		require.NoError(t, err)
		assert.Zero(t, user.ID)
		assert.Equal(t, "Ana", user.Name)
		assert.Equal(t, "ana@x.com", user.Email)
		assert.Nil(t, user.DeletedAt)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	tests := []struct {
		name    string
		user    [3]string // name, email, hash
		wantErr error
	}{
		{"empty name", [3]string{"", "ana@x.com", "h"}, ErrEmptyName},
		{"name too short", [3]string{"A", "ana@x.com", "h"}, ErrNameTooShort},
		{"name too long", [3]string{strings.Repeat("a", 101), "ana@x.com", "h"}, ErrNameTooLong},
		{"empty email", [3]string{"Ana", "", "h"}, ErrEmptyEmail},
		{"email without at", [3]string{"Ana", "ana.x.com", "h"}, ErrInvalidEmail},
		{"email without domain dot", [3]string{"Ana", "ana@xcom", "h"}, ErrInvalidEmail},
		{"email with spaces", [3]string{"Ana", "ana @x.com", "h"}, ErrInvalidEmail},
		{"empty hash", [3]string{"Ana", "ana@x.com", ""}, ErrEmptyPassword},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.user[0], tc.user[1], tc.user[2])
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePassword("secret1"))
	assert.ErrorIs(t, ValidatePassword(""), ErrEmptyPassword)
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("p", 73)), ErrPasswordTooLong)
}

func TestUserIsDeleted(t *testing.T) {
	t.Parallel()

	user := &User{}
	assert.False(t, user.IsDeleted())

	now := time.Now().UTC()
	user.DeletedAt = &now
	assert.True(t, user.IsDeleted())
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Ana", "ana@x.com", "super-secret-hash")
	require.NoError(t, err)

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret-hash")
	assert.NotContains(t, string(data), "password")
}
