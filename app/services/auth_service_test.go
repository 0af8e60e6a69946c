package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/auth"
)

func TestRegister(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	user, token, err := svc.Register(context.Background(), "Astrid", "Astrid@Example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "astrid@example.com", user.Email, "email is lowercased")
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.False(t, user.IsEmailVerified)
	assert.Len(t, user.VerificationToken, 64, "32 random bytes hex encoded")
	require.NotNil(t, user.VerificationTokenExpires)
	assert.NotEqual(t, "hunter22", user.Password, "password is stored hashed")
	assert.True(t, auth.CheckPassword(user.Password, "hunter22"))

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, string(models.RoleCustomer), claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, _, err := svc.Register(context.Background(), "A", "dup@example.com", "password1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "B", "dup@example.com", "password2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	registered, _, err := svc.Register(context.Background(), "Astrid", "astrid@example.com", "hunter22")
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "astrid@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, _, err := svc.Register(context.Background(), "Astrid", "astrid@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email")

	_, _, err = svc.Login(context.Background(), "astrid@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "wrong password maps to the same error")
}

func TestVerifyEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	registered, _, err := svc.Register(context.Background(), "Astrid", "astrid@example.com", "hunter22")
	require.NoError(t, err)
	token := registered.VerificationToken

	user, err := svc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	assert.Empty(t, user.VerificationToken, "token is single use")

	// Replaying the token fails.
	_, err = svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.VerifyEmail(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
