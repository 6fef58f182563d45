package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Anna@Example.COM ", " Anna ", "secret1", RoleTenant)
	require.NoError(t, err)

	assert.Equal(t, "anna@example.com", u.Email)
	assert.Equal(t, "Anna", u.Name)
	assert.Equal(t, RoleTenant, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("not-an-email", "", "secret1", RoleTenant)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewUser("a@b.c", "", "short", RoleTenant)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewUser("a@b.c", "", "secret1", Role("admin"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Anna", (&User{Name: "Anna", Email: "a@b.c"}).DisplayName())
	assert.Equal(t, "a@b.c", (&User{Email: "a@b.c"}).DisplayName())
}

func TestClaims_Actor(t *testing.T) {
	u, err := NewUser("a@b.c", "A", "secret1", RoleLandlord)
	require.NoError(t, err)
	claims := Claims{UserID: u.ID, Email: u.Email, Role: u.Role}

	assert.Equal(t, Actor{UserID: u.ID, Role: RoleLandlord}, claims.Actor())
}
