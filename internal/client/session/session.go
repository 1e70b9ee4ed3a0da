package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionChanged = errors.New("session changed")
	ErrIncomplete     = errors.New("session requires uid, access token and refresh token")
)

// User is the signed-in account as the client knows it.
type User struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName,omitempty"`
	PhotoURL      string    `json:"photoURL,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	LastSignInAt  time.Time `json:"lastSignInAt"`
}

// Name is the display name, or the email when no display name is set.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Session pairs a User with its credentials. Token.AccessToken is the
// provider's ID token.
type Session struct {
	User  User
	Token *oauth2.Token
}

func (s Session) validate() error {
	if s.User.UID == "" || s.Token == nil || s.Token.AccessToken == "" || s.Token.RefreshToken == "" {
		return ErrIncomplete
	}
	return nil
}

func (s Session) clone() Session {
	out := Session{User: s.User}
	if s.Token != nil {
		t := *s.Token
		out.Token = &t
	}
	return out
}

// IDClaims are the ID token claims the client reads. The token is not
// verified locally; the provider verifies it on every call.
type IDClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func ParseIDToken(raw string) (*IDClaims, error) {
	claims := &IDClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}
	return claims, nil
}

// NewToken builds the credential pair returned by the identity provider.
// Expiry comes from the ID token's exp claim, else from expiresIn seconds
// counted from now; it stays zero when neither is usable.
func NewToken(idToken, refreshToken, expiresIn string, now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  idToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}

	if c, err := ParseIDToken(idToken); err == nil && c.ExpiresAt != nil {
		tok.Expiry = c.ExpiresAt.Time
		return tok
	}
	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		tok.Expiry = now.Add(time.Duration(secs) * time.Second)
	}
	return tok
}
