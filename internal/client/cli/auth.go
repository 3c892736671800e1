package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/whawty/auth-console/internal/client/api"
)

// getSimpleText, getDefaultText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getDefaultText = GetDefaultText
	getPassword    = GetPassword
)

// Login prompts for credentials and attempts to authenticate. After a forced
// logout the username prompt offers the previously authenticated identity as
// default. A failed attempt surfaces an advisory and leaves the console
// logged out; it never produces an in-between state.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.advisory("Login", "already logged in, logout first")
		return nil
	}

	username, err := getDefaultText(a.reader, "Username", a.loginPrefill, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}

	result, err := a.api.Authenticate(ctx, username, password)
	if err != nil {
		var unauthorized *api.UnauthorizedError
		if errors.As(err, &unauthorized) {
			a.advisoryError("Error logging in", "username and/or password are wrong!")
		} else {
			a.advisoryError("Error logging in", err.Error())
		}
		return err
	}

	logged, err := a.sessions.Login(ctx, result.Identity, result.IsAdmin, result.LastChanged, result.Token)
	if err != nil {
		a.advisoryError("Error logging in", err.Error())
		return err
	}

	a.loginPrefill = ""
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", logged.Identity, logged.Role())

	// the admin view starts with a full list query
	if logged.IsAdmin {
		return a.ListUsers(ctx)
	}
	return nil
}

// Logout leaves the logged-in state and drops the cached account list.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Logout(ctx); err != nil {
		a.advisoryError("Logout", err.Error())
		return err
	}
	a.users = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the identity, role and last password change of the current
// session.
func (a *App) Status(ctx context.Context) error {
	s := a.sessions.Current()
	if s == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "User:         %s\n", s.Identity)
	fmt.Fprintf(a.out, "Role:         %s\n", s.Role())
	fmt.Fprintf(a.out, "Last changed: %s\n", formatTime(s.LastChanged))
	return nil
}
