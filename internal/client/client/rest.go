package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/logging"
	"golang.org/x/oauth2"
)

// Endpoints locates the hosted service. The base URLs can point at local
// emulators or test servers.
type Endpoints struct {
	APIKey        string
	ProjectID     string
	StorageBucket string
	OAuthClientID string
	ShareBaseURL  string

	IdentityURL  string
	TokenURL     string
	FirestoreURL string
	StorageURL   string
	OAuthAuthURL string

	// Timeout bounds each HTTP attempt; 0 means no limit beyond ctx.
	Timeout time.Duration
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		IdentityURL:  "https://identitytoolkit.googleapis.com",
		TokenURL:     "https://securetoken.googleapis.com",
		FirestoreURL: "https://firestore.googleapis.com",
		StorageURL:   "https://firebasestorage.googleapis.com",
		OAuthAuthURL: "https://accounts.google.com/o/oauth2/v2/auth",
	}
}

type RESTClient struct {
	cfg     Endpoints
	session *session.Manager
	http    *http.Client
	log     logging.Logger
	now     func() time.Time
}

var _ Client = (*RESTClient)(nil)

type Option func(*RESTClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *RESTClient) {
		if l != nil {
			c.log = l
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(c *RESTClient) { c.now = now }
}

func NewRESTClient(cfg Endpoints, sm *session.Manager, opts ...Option) *RESTClient {
	if sm == nil {
		sm = session.NewManager(nil, nil)
	}
	c := &RESTClient{
		cfg:     cfg,
		session: sm,
		http:    http.DefaultClient,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Session exposes the manager the client reads credentials from.
func (c *RESTClient) Session() *session.Manager { return c.session }

// buildFunc creates a fresh request for one attempt. tok is nil for
// unauthenticated calls.
type buildFunc func(ctx context.Context, tok *oauth2.Token) (*http.Request, error)

func (c *RESTClient) attempt(ctx context.Context, op string, build buildFunc, tok *oauth2.Token) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if c.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
	}

	req, err := build(ctx, tok)
	if err != nil {
		cancel()
		return nil, nil, &APIError{Op: op, Message: err.Error(), Err: ErrRequest}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.log.Debug(ctx, "request failed", "op", op, "error", err)
		return nil, nil, networkError(op, err)
	}
	return resp, cancel, nil
}

// do runs an unauthenticated request and decodes a 2xx JSON body into out
// (when out is non-nil). Non-2xx responses go through onError.
func (c *RESTClient) do(ctx context.Context, op string, build buildFunc, out any, onError func(*http.Response) error) error {
	resp, cancel, err := c.attempt(ctx, op, build, nil)
	if err != nil {
		return err
	}
	defer cancel()
	return c.finish(ctx, op, resp, out, onError)
}

// authorized runs a request that needs the session's ID token. Without a
// session it fails with ErrAuth before touching the network. A locally
// expired token is refreshed first; otherwise a 401 triggers one refresh and
// one retry. Either way at most one refresh happens per call.
func (c *RESTClient) authorized(ctx context.Context, op string, build buildFunc, out any, onError func(*http.Response) error) error {
	cur, ok := c.session.Current()
	if !ok || cur.Token.AccessToken == "" {
		return notAuthenticated(op)
	}
	tok, uid := cur.Token, cur.User.UID

	refreshed := false
	if !tok.Valid() && tok.RefreshToken != "" {
		next, err := c.refresh(ctx, uid, tok)
		if err != nil {
			if errors.Is(err, session.ErrSessionChanged) {
				return err
			}
			return &APIError{Op: op, Message: "token expired and refresh failed", Err: ErrAuth}
		}
		tok, refreshed = next, true
	}

	resp, cancel, err := c.attempt(ctx, op, build, tok)
	if err != nil {
		return err
	}
	defer cancel()

	if resp.StatusCode != http.StatusUnauthorized || refreshed || tok.RefreshToken == "" {
		return c.finish(ctx, op, resp, out, onError)
	}

	unauthorized := statusError(op, resp, ErrAuth)
	drain(resp)

	next, rerr := c.refresh(ctx, uid, tok)
	if rerr != nil {
		if errors.Is(rerr, session.ErrSessionChanged) {
			return rerr
		}
		c.log.Warn(ctx, "token refresh failed", "op", op, "error", rerr)
		return unauthorized
	}

	resp, cancel2, err := c.attempt(ctx, op, build, next)
	if err != nil {
		return err
	}
	defer cancel2()
	return c.finish(ctx, op, resp, out, onError)
}

func (c *RESTClient) finish(ctx context.Context, op string, resp *http.Response, out any, onError func(*http.Response) error) error {
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := onError(resp)
		if err != nil {
			c.log.Debug(ctx, "request rejected", "op", op, "status", resp.StatusCode, "error", err)
		}
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Message: "decode response: " + err.Error(), Err: ErrRequest}
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

// refresh exchanges tok's refresh token for a new pair and installs it in
// the session manager, but only if the session still holds tok. When a
// concurrent call of the same user refreshed first, its token is returned
// instead; a different user or a signed-out session is ErrSessionChanged.
func (c *RESTClient) refresh(ctx context.Context, uid string, tok *oauth2.Token) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID: c.cfg.OAuthClientID,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	rctx := context.WithValue(ctx, oauth2.HTTPClient, c.http)
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.cfg.Timeout)
		defer cancel()
	}

	fresh, err := conf.TokenSource(rctx, &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	// the ID token is what the other endpoints accept
	idToken, _ := fresh.Extra("id_token").(string)
	if idToken == "" {
		idToken = fresh.AccessToken
	}
	next := session.NewToken(idToken, fresh.RefreshToken, "", c.now())
	if next.Expiry.IsZero() {
		next.Expiry = fresh.Expiry
	}
	if next.RefreshToken == "" {
		next.RefreshToken = tok.RefreshToken
	}

	if err := c.session.ReplaceToken(ctx, tok.RefreshToken, next); err != nil {
		if !errors.Is(err, session.ErrSessionChanged) {
			return nil, err
		}
		cur, ok := c.session.Current()
		if !ok || cur.User.UID != uid || cur.Token.AccessToken == tok.AccessToken {
			return nil, err
		}
		c.log.Debug(ctx, "token already refreshed by another call", "uid", uid)
		return cur.Token, nil
	}
	c.log.Info(ctx, "token refreshed")
	return next, nil
}

func (c *RESTClient) tokenURL() string {
	return strings.TrimRight(c.cfg.TokenURL, "/") + "/v1/token?" + url.Values{"key": {c.cfg.APIKey}}.Encode()
}

func newJSONRequest(ctx context.Context, method, u string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func bearer(req *http.Request, tok *oauth2.Token) {
	if tok != nil {
		tok.SetAuthHeader(req)
	}
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
