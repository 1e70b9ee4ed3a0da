package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/namecard/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account, sets its display name and signs in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}

	u, err := a.authService.SignUp(ctx, email, string(password), name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name())
	return nil
}

// Login signs in with email and password. A profile write failure after a
// successful sign-in is reported but leaves the user signed in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.SignIn(ctx, email, string(password))
	if u == nil {
		return err
	}
	if err != nil {
		a.log.Warn(ctx, "signed in without profile", "uid", u.UID, "err", err)
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", u.Name())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.authService.CurrentUser()
	if !ok {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>\n", u.Name(), u.Email)
	fmt.Fprintf(a.out, "  uid:      %s\n", u.UID)
	fmt.Fprintf(a.out, "  verified: %t\n", u.EmailVerified)
	if !u.LastSignInAt.IsZero() {
		fmt.Fprintf(a.out, "  since:    %s\n", u.LastSignInAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Google prints the browser URL for signing in with a Google account.
func (a *App) Google(ctx context.Context) error {
	fmt.Fprintln(a.out, "Open this URL in a browser to sign in with Google:")
	fmt.Fprintln(a.out, a.authService.GoogleSignInURL(""))
	return nil
}

// DeleteAccount removes the profile and the account after the user types
// "yes".
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "This deletes your account for good. Type 'yes' to continue", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.authService.DeleteAccount(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
