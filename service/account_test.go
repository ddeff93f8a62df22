package service

import (
	"context"
	"testing"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/Adi-Narayan/Hashira/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.accounts.Register(ctx, "Ada", " A@X.com ", "password1")
	require.NoError(t, err)
	claims, err := f.issuer.ParseRole(token, auth.RoleUser)
	require.NoError(t, err)

	user, err := f.accounts.Profile(ctx, claims.Subject)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "password1", user.Password)
	assert.Empty(t, user.CartData)
	assert.Equal(t, []string{"welcome"}, f.notifier.Kinds())

	loginToken, err := f.accounts.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	loginClaims, err := f.issuer.Parse(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, loginClaims.Subject)

	_, err = f.accounts.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Login(ctx, "nobody@x.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccount_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, "Ada", "not-an-email", "password1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = f.accounts.Register(ctx, "Ada", "a@x.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
	_, err = f.accounts.Register(ctx, " ", "a@x.com", "password1")
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = f.accounts.Register(ctx, "Ada", "a@x.com", "password1")
	require.NoError(t, err)
	_, err = f.accounts.Register(ctx, "Ada", "A@x.com", "password1")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestAccount_AdminLogin(t *testing.T) {
	f := newFixture(t)

	token, err := f.accounts.AdminLogin("admin@x.com", "admin-pass")
	require.NoError(t, err)
	claims, err := f.issuer.ParseRole(token, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", claims.Subject)

	_, err = f.accounts.AdminLogin("admin@x.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccount_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "a@x.com")
	f.register(t, "taken@x.com")

	user, err := f.accounts.UpdateProfile(ctx, userID, ProfileUpdate{Phone: "98765"})
	require.NoError(t, err)
	assert.Equal(t, "Test", user.Name)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "98765", user.Phone)

	_, err = f.accounts.UpdateProfile(ctx, userID, ProfileUpdate{Email: "bad"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.accounts.UpdateProfile(ctx, userID, ProfileUpdate{Email: "taken@x.com"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	user, err = f.accounts.UpdateProfile(ctx, userID, ProfileUpdate{Name: "Ada", Email: "new@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "new@x.com", user.Email)

	_, err = f.accounts.UpdateProfile(ctx, "missing", ProfileUpdate{Name: "x"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAccount_PasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com")

	require.NoError(t, f.accounts.RequestPasswordReset(ctx, "nobody@x.com"))
	assert.Equal(t, []string{"welcome"}, f.notifier.Kinds())

	require.NoError(t, f.accounts.RequestPasswordReset(ctx, "a@x.com"))
	mail := f.notifier.Last()
	require.Equal(t, "reset", mail.kind)
	assert.Equal(t, "a@x.com", mail.to)

	assert.ErrorIs(t, f.accounts.ResetPassword(ctx, mail.token, "short"), ErrWeakPassword)
	assert.ErrorIs(t, f.accounts.ResetPassword(ctx, "garbage", "new-password"), ErrInvalidResetToken)

	require.NoError(t, f.accounts.ResetPassword(ctx, mail.token, "new-password"))
	_, err := f.accounts.Login(ctx, "a@x.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Login(ctx, "a@x.com", "new-password")
	require.NoError(t, err)

	// The token is bound to the old password and cannot be reused.
	assert.ErrorIs(t, f.accounts.ResetPassword(ctx, mail.token, "another-password"), ErrInvalidResetToken)

	// A login token is not a reset token.
	loginToken, err := f.accounts.Login(ctx, "a@x.com", "new-password")
	require.NoError(t, err)
	assert.ErrorIs(t, f.accounts.ResetPassword(ctx, loginToken, "another-password"), ErrInvalidResetToken)
}
