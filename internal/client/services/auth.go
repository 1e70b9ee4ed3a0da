// Package services contains application services for the namecard client.
// This file defines the authentication service: sign-in, sign-up, sign-out
// and account deletion, keeping the users/<uid> profile document in step
// with the identity account.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/models"
	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/client/value"
	"github.com/dmitrijs2005/namecard/internal/common"
	"github.com/dmitrijs2005/namecard/internal/logging"
	"github.com/google/uuid"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: password sign-in, then make sure the profile document exists.
//   - SignUp: create the account, set its display name, create the profile.
//   - SignOut: drop the local session.
//   - DeleteAccount: remove profile documents, then the account itself.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*session.User, error)
	SignUp(ctx context.Context, email, password, displayName string) (*session.User, error)
	SignOut(ctx context.Context) error
	CurrentUser() (*session.User, bool)
	GoogleSignInURL(state string) string
	DeleteAccount(ctx context.Context) error
}

type authService struct {
	client client.Client
	log    logging.Logger
	now    func() time.Time
}

func NewAuthService(c client.Client, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, log: log, now: time.Now}
}

// SignIn signs in and creates users/<uid> if it does not exist yet. An
// already existing profile is fine; any other profile failure is returned
// together with the signed-in user, and the session stays established.
func (a *authService) SignIn(ctx context.Context, email, password string) (*session.User, error) {
	u, err := a.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	err = a.createProfile(ctx, *u)
	if err != nil && !errors.Is(err, client.ErrAlreadyExists) {
		return u, fmt.Errorf("create user profile: %w", err)
	}
	return u, nil
}

func (a *authService) SignUp(ctx context.Context, email, password, displayName string) (*session.User, error) {
	u, err := a.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		if err := a.client.UpdateDisplayName(ctx, displayName); err != nil {
			return u, fmt.Errorf("set display name: %w", err)
		}
		u.DisplayName = displayName
	}

	if err := a.createProfile(ctx, *u); err != nil {
		return u, fmt.Errorf("create user profile: %w", err)
	}
	return u, nil
}

func (a *authService) createProfile(ctx context.Context, u session.User) error {
	p := models.NewUserProfile(u, a.now())
	return a.client.AddDocumentWithID(ctx, common.CollectionUsers, u.UID, p.Fields())
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.client.SignOut(ctx)
}

func (a *authService) CurrentUser() (*session.User, bool) {
	return a.client.CurrentUser()
}

// GoogleSignInURL returns the browser URL for Google sign-in; an empty state
// gets a random one.
func (a *authService) GoogleSignInURL(state string) string {
	if state == "" {
		state = uuid.NewString()
	}
	return a.client.GoogleSignInURL(state)
}

// DeleteAccount removes every users document of the signed-in user and then
// the identity account. The local session is cleared on success.
func (a *authService) DeleteAccount(ctx context.Context) error {
	u, ok := a.client.CurrentUser()
	if !ok {
		return fmt.Errorf("delete account: %w", client.ErrAuth)
	}

	docs, err := a.client.QueryDocuments(ctx, common.CollectionUsers, "uid", "EQUAL", value.String(u.UID))
	if err != nil {
		return fmt.Errorf("find user profile: %w", err)
	}
	for _, d := range docs {
		if err := a.client.DeleteDocument(ctx, common.CollectionUsers, d.ID); err != nil && !errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("delete user profile %s: %w", d.ID, err)
		}
	}

	if err := a.client.DeleteAccount(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "account deleted", "uid", u.UID)
	return nil
}
