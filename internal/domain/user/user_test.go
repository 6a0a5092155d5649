package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Ana ", "Ana@Example.COM ", "", "hash")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name())
	assert.Equal(t, "ana@example.com", u.Email())
	assert.Equal(t, RoleUser, u.Role())
	assert.True(t, u.IsActive())
	assert.False(t, u.IsAdmin())

	_, err = NewUser("A", "a@example.com", "", "hash")
	assert.EqualError(t, err, "Name must be at least 2 characters")

	_, err = NewUser("Ana", "not-an-email", "", "hash")
	assert.Error(t, err)
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser("Ana", "ana@example.com", "111", "hash")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("", nil))
	assert.Equal(t, "Ana", u.Name())
	assert.Equal(t, "111", u.Phone())

	phone := "222"
	require.NoError(t, u.UpdateProfile("Ana Maria", &phone))
	assert.Equal(t, "Ana Maria", u.Name())
	assert.Equal(t, "222", u.Phone())

	assert.Error(t, u.UpdateProfile("x", nil))
}

func TestUser_Promote(t *testing.T) {
	u, err := NewUser("Root", "root@example.com", "", "hash")
	require.NoError(t, err)
	u.Promote()
	assert.True(t, u.IsAdmin())
}
