package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIDToken(t *testing.T, claims IDClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestNewToken_ExpiryFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	verified := true
	raw := signedIDToken(t, IDClaims{
		Email:            "a@b.c",
		EmailVerified:    &verified,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1", ExpiresAt: jwt.NewNumericDate(exp)},
	})

	tok := NewToken(raw, "refresh", "60", time.Now())

	assert.Equal(t, raw, tok.AccessToken)
	assert.Equal(t, "refresh", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, exp.Equal(tok.Expiry))
	assert.True(t, tok.Valid())
}

func TestNewToken_ExpiryFromExpiresIn(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tok := NewToken("not-a-jwt", "r", "3600", now)

	assert.Equal(t, now.Add(time.Hour), tok.Expiry)
}

func TestNewToken_NoExpiry(t *testing.T) {
	tok := NewToken("opaque", "r", "", time.Now())
	assert.True(t, tok.Expiry.IsZero())
	assert.True(t, tok.Valid(), "a token without expiry is treated as valid")
}

func TestParseIDToken(t *testing.T) {
	verified := false
	raw := signedIDToken(t, IDClaims{
		Email:            "x@y.z",
		EmailVerified:    &verified,
		Name:             "Saoirse",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-9"},
	})

	c, err := ParseIDToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "x@y.z", c.Email)
	assert.Equal(t, "Saoirse", c.Name)
	assert.Equal(t, "uid-9", c.Subject)
	require.NotNil(t, c.EmailVerified)
	assert.False(t, *c.EmailVerified)

	_, err = ParseIDToken("garbage")
	require.Error(t, err)
}

func TestUser_Name(t *testing.T) {
	assert.Equal(t, "Ciara", User{DisplayName: "Ciara", Email: "c@x"}.Name())
	assert.Equal(t, "c@x", User{Email: "c@x"}.Name())
}
