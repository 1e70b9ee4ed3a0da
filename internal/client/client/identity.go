package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/namecard/internal/client/session"
	"golang.org/x/oauth2"
)

// authResponse is the identity endpoints' reply to sign-in, sign-up and
// profile updates.
type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Registered   bool   `json:"registered"`
}

func (c *RESTClient) accountsURL(action string) string {
	return strings.TrimRight(c.cfg.IdentityURL, "/") + "/v1/accounts:" + action + "?" +
		url.Values{"key": {c.cfg.APIKey}}.Encode()
}

func (c *RESTClient) SignInWithPassword(ctx context.Context, email, password string) (*session.User, error) {
	return c.passwordAuth(ctx, "signInWithPassword", "sign in", "sign in failed", email, password)
}

func (c *RESTClient) SignUp(ctx context.Context, email, password string) (*session.User, error) {
	return c.passwordAuth(ctx, "signUp", "sign up", "sign up failed", email, password)
}

func (c *RESTClient) passwordAuth(ctx context.Context, action, op, defaultMsg, email, password string) (*session.User, error) {
	body := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	build := func(ctx context.Context, _ *oauth2.Token) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodPost, c.accountsURL(action), body)
	}

	var ar authResponse
	err := c.do(ctx, op, build, &ar, func(resp *http.Response) error {
		return authError(op, resp, defaultMsg)
	})
	if err != nil {
		return nil, err
	}
	if ar.LocalID == "" || ar.IDToken == "" || ar.RefreshToken == "" {
		return nil, &APIError{Op: op, Message: "incomplete auth response", Err: ErrAuth}
	}

	s := c.sessionFrom(ar)
	if err := c.session.Establish(ctx, s); err != nil {
		return nil, err
	}
	c.log.Info(ctx, "signed in", "uid", s.User.UID)

	u := s.User
	return &u, nil
}

func (c *RESTClient) sessionFrom(ar authResponse) session.Session {
	now := c.now().UTC()
	u := session.User{
		UID:          ar.LocalID,
		Email:        ar.Email,
		DisplayName:  ar.DisplayName,
		PhotoURL:     ar.PhotoURL,
		CreatedAt:    now,
		LastSignInAt: now,
	}
	if claims, err := session.ParseIDToken(ar.IDToken); err == nil {
		if claims.EmailVerified != nil {
			u.EmailVerified = *claims.EmailVerified
		}
		if u.PhotoURL == "" {
			u.PhotoURL = claims.Picture
		}
	}
	return session.Session{
		User:  u,
		Token: session.NewToken(ar.IDToken, ar.RefreshToken, ar.ExpiresIn, now),
	}
}

func (c *RESTClient) UpdateDisplayName(ctx context.Context, name string) error {
	const op = "update profile"

	// the credentials of the last attempt; fresh ones from the reply
	// replace only those
	var used *oauth2.Token
	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		used = tok
		return newJSONRequest(ctx, http.MethodPost, c.accountsURL("update"), map[string]any{
			"idToken":           tok.AccessToken,
			"displayName":       name,
			"returnSecureToken": true,
		})
	}

	var ar authResponse
	err := c.authorized(ctx, op, build, &ar, func(resp *http.Response) error {
		return authError(op, resp, "profile update failed")
	})
	if err != nil {
		return err
	}

	if ar.IDToken != "" {
		next := session.NewToken(ar.IDToken, ar.RefreshToken, ar.ExpiresIn, c.now())
		if err := c.session.ReplaceToken(ctx, used.RefreshToken, next); err != nil {
			return err
		}
	}
	return c.session.UpdateUser(ctx, func(u *session.User) { u.DisplayName = name })
}

func (c *RESTClient) SignOut(ctx context.Context) error {
	if err := c.session.Clear(ctx); err != nil {
		return err
	}
	c.log.Info(ctx, "signed out")
	return nil
}

func (c *RESTClient) DeleteAccount(ctx context.Context) error {
	const op = "delete account"

	build := func(ctx context.Context, tok *oauth2.Token) (*http.Request, error) {
		return newJSONRequest(ctx, http.MethodPost, c.accountsURL("delete"), map[string]any{
			"idToken": tok.AccessToken,
		})
	}
	err := c.authorized(ctx, op, build, nil, func(resp *http.Response) error {
		return authError(op, resp, "account deletion failed")
	})
	if err != nil {
		return err
	}
	if err := c.SignOut(ctx); err != nil {
		c.log.Warn(ctx, "account deleted but session not cleared", "error", err)
		return fmt.Errorf("%w: %w", ErrSignOutFailed, err)
	}
	return nil
}

func (c *RESTClient) CurrentUser() (*session.User, bool) {
	u, ok := c.session.User()
	if !ok {
		return nil, false
	}
	return &u, true
}

// GoogleSignInURL returns the authorization URL that starts a Google sign-in
// in the browser. The authorization code it yields is not exchanged here.
func (c *RESTClient) GoogleSignInURL(state string) string {
	conf := &oauth2.Config{
		ClientID:    c.cfg.OAuthClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: c.cfg.OAuthAuthURL},
		RedirectURL: strings.TrimRight(c.cfg.ShareBaseURL, "/") + "/auth/callback",
		Scopes:      []string{"openid", "email", "profile"},
	}
	return conf.AuthCodeURL(state)
}
