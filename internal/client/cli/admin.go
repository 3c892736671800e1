package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/whawty/auth-console/internal/client/models"
)

// ListUsers fetches the full account list and renders it. The cached
// snapshot is replaced wholesale; there is no incremental patching.
func (a *App) ListUsers(ctx context.Context) error {
	if !a.isAdmin() {
		a.advisory("User List", "only admins are allowed to list users")
		return nil
	}
	if err := a.refreshUsers(ctx); err != nil {
		return err
	}
	a.renderUsers()
	return nil
}

// RemoveUser deletes an account and re-queries the full list.
func (a *App) RemoveUser(ctx context.Context, username string) error {
	if !a.isAdmin() {
		a.advisory("Remove User", "only admins are allowed to remove users")
		return nil
	}

	removed, err := a.api.Remove(ctx, username)
	if err != nil {
		a.handleAPIError(ctx, err)
		return err
	}

	a.advisory("Remove User", "successfully removed user "+removed)
	return a.refreshUsers(ctx)
}

// ToggleRole flips an account's admin flag, based on the cached snapshot,
// and re-queries the full list.
func (a *App) ToggleRole(ctx context.Context, username string) error {
	if !a.isAdmin() {
		a.advisory("Role", "only admins are allowed to change roles")
		return nil
	}

	record, ok := a.findUser(username)
	if !ok {
		// cache may be stale, refresh once and retry
		if err := a.refreshUsers(ctx); err != nil {
			return err
		}
		if record, ok = a.findUser(username); !ok {
			a.advisoryError("Role", "unknown user "+username)
			return nil
		}
	}

	changed, err := a.api.SetAdmin(ctx, username, !record.IsAdmin)
	if err != nil {
		a.handleAPIError(ctx, err)
		return err
	}

	a.log.Info(ctx, "role toggled", "username", changed, "admin", !record.IsAdmin)
	return a.refreshUsers(ctx)
}

// refreshUsers replaces the cached account list with the server's truth.
// Every mutating admin action funnels through here on success.
func (a *App) refreshUsers(ctx context.Context) error {
	users, err := a.api.ListFull(ctx)
	if err != nil {
		a.handleAPIError(ctx, err)
		return err
	}
	a.users = users
	return nil
}

func (a *App) findUser(username string) (models.UserRecord, bool) {
	for _, u := range a.users {
		if u.Name == username {
			return u, true
		}
	}
	return models.UserRecord{}, false
}

func (a *App) renderUsers() {
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLE\tLAST CHANGED\tVALID\tSUPPORTED\tFORMAT")
	for _, u := range a.users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s (%s)\n",
			u.Name, u.Role(), formatTime(u.LastChanged),
			boolMark(u.IsValid), boolMark(u.IsSupported),
			u.FormatID, u.FormatParams)
	}
	_ = w.Flush()
}

func boolMark(flag bool) string {
	if flag {
		return "yes"
	}
	return "no"
}
