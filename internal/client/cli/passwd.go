package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whawty/auth-console/internal/client/advisor"
	"github.com/whawty/auth-console/internal/client/flow"
)

// Passwd runs the password workflow. Without a target it changes the
// caller's own password; with a target it is the admin-initiated change of
// another account's password.
func (a *App) Passwd(ctx context.Context, target string) error {
	s := a.sessions.Current()
	if s == nil {
		a.advisory("Password Update", "login first")
		return nil
	}

	var dialog *flow.Dialog
	switch {
	case target == "" || target == s.Identity:
		dialog = a.flows.Open(flow.SelfChange, s.Identity, false)
	case !s.IsAdmin:
		a.advisory("Password Update", "only admins may change other users' passwords")
		return nil
	default:
		dialog = a.flows.Open(flow.AdminChange, target, false)
	}

	username, ok := a.runDialog(ctx, dialog)
	if !ok {
		return nil
	}

	a.advisory("Password Update", "successfully updated password for "+username)
	if s.IsAdmin && username != s.Identity {
		return a.refreshUsers(ctx)
	}
	return nil
}

// AddUser collects the role for the new account and runs the password
// workflow with the create purpose.
func (a *App) AddUser(ctx context.Context, username string) error {
	if !a.isAdmin() {
		a.advisory("Add User", "only admins are allowed to add users")
		return nil
	}

	answer, err := getSimpleText(a.reader, "Admin role? (y/N)", a.out)
	if err != nil {
		return err
	}
	isAdmin := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")

	dialog := a.flows.Open(flow.AdminCreate, username, isAdmin)
	created, ok := a.runDialog(ctx, dialog)
	if !ok {
		return nil
	}

	a.advisory("Add User", "successfully added user "+created)
	return a.refreshUsers(ctx)
}

// runDialog drives one password dialog to completion: collect a password,
// show the strength verdict, collect the confirmation, submit. A mismatch
// or a retryable API failure loops for another attempt; an empty password
// aborts. Returns the username echoed by the server and whether the dialog
// succeeded.
func (a *App) runDialog(ctx context.Context, dialog *flow.Dialog) (string, bool) {
	for {
		password, err := getPassword("New password for "+dialog.Target(), a.out)
		if err != nil {
			a.flows.Close()
			return "", false
		}
		if password == "" {
			a.advisory("Password Update", "aborted")
			a.flows.Close()
			return "", false
		}

		a.printVerdict(a.advisor.Check(password, dialog.Target()))

		confirm, err := getPassword("Retype password", a.out)
		if err != nil {
			a.flows.Close()
			return "", false
		}

		username, err := dialog.Submit(ctx, password, confirm)
		switch {
		case err == nil:
			return username, true
		case errors.Is(err, flow.ErrPasswordMismatch), errors.Is(err, flow.ErrEmptyPassword):
			a.advisoryError("Password Update", "passwords do not match, try again")
		case errors.Is(err, flow.ErrSuperseded):
			return "", false
		default:
			a.handleAPIError(ctx, err)
			if !a.isLoggedIn() {
				// forced logout, the dialog is gone with the session
				return "", false
			}
			// dialog stays open, let the user retry with a new password
		}
	}
}

// printVerdict renders the strength advisory: a four star meter like the web
// console's, the qualitative label and the crack time estimate, then any
// warning and tips.
func (a *App) printVerdict(v advisor.Verdict) {
	meter := make([]byte, 0, 4)
	for i := 0; i < 4; i++ {
		if i < v.Score {
			meter = append(meter, '*')
		} else {
			meter = append(meter, '.')
		}
	}
	fmt.Fprintf(a.out, "strength: [%s] %s (estimated crack time: %s)\n", meter, v.Label, v.CrackTime)
	if v.Warning != "" {
		fmt.Fprintf(a.out, "%s: %s\n", v.Severity, v.Warning)
	}
	for _, tip := range v.Suggestions {
		fmt.Fprintf(a.out, "tip: %s\n", tip)
	}
}
