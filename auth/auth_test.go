package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer("test-secret", time.Hour, time.Hour)
}

func TestIssuer_UserRoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.IssueUser("user-1")
	require.NoError(t, err)

	claims, err := issuer.ParseRole(token, RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = issuer.ParseRole(token, RoleAdmin)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestIssuer_AdminRoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.IssueAdmin("admin@example.com")
	require.NoError(t, err)

	claims, err := issuer.ParseRole(token, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute, time.Hour)
	token, err := issuer.IssueUser("user-1")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Tampered(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.IssueUser("user-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewIssuer("other-secret", time.Hour, time.Hour).IssueAdmin("user-1")
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	// Admin payload with the original signature.
	_, err = issuer.Parse(parts[0] + "." + forgedParts[1] + "." + parts[2])
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsMalformedAndNone(t *testing.T) {
	issuer := newTestIssuer()
	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := issuer.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RequiresSubjectAndExpiry(t *testing.T) {
	issuer := newTestIssuer()

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := noSubject.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	s, err = noExpiry.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_ResetToken(t *testing.T) {
	issuer := newTestIssuer()
	token, err := issuer.IssueReset("a@x.com", "hash-1")
	require.NoError(t, err)

	_, err = issuer.ParseRole(token, RoleUser)
	assert.ErrorIs(t, err, ErrWrongRole)

	claims, err := issuer.ParseReset(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.True(t, claims.MatchesPassword("hash-1"))
	assert.False(t, claims.MatchesPassword("hash-2"))

	userToken, err := issuer.IssueUser("user-1")
	require.NoError(t, err)
	_, err = issuer.ParseReset(userToken)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, CheckPassword(hash, "password1"))
	assert.False(t, CheckPassword(hash, "password2"))
}

func TestCheckAdmin(t *testing.T) {
	assert.True(t, CheckAdmin("admin@x.com", "secret", "admin@x.com", "secret"))
	assert.False(t, CheckAdmin("admin@x.com", "secret", "admin@x.com", "wrong"))
	assert.False(t, CheckAdmin("admin@x.com", "secret", "other@x.com", "secret"))
	assert.False(t, CheckAdmin("", "", "", ""))
}
