// Package api is the HTTP client for the remote credential service. It owns
// the wire format, augments every authenticated request with the current
// session token, and translates failure responses into typed errors.
package api

import (
	"context"
	"time"

	"github.com/whawty/auth-console/internal/client/models"
)

// AuthResult is the decoded outcome of a successful authenticate call.
type AuthResult struct {
	Token       string
	Identity    string
	IsAdmin     bool
	LastChanged time.Time
}

// Client is the console's view of the credential service, one method per
// endpoint. Mutating calls return the username echoed by the server.
type Client interface {
	// Authenticate verifies the given credentials. It is the only call
	// that is not augmented with a session token.
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)

	// ListFull fetches the full account list, sorted by name.
	ListFull(ctx context.Context) ([]models.UserRecord, error)

	// Add creates a new account with the given password and role.
	Add(ctx context.Context, username, password string, isAdmin bool) (string, error)

	// Update sets a new password for an existing account.
	Update(ctx context.Context, username, newPassword string) (string, error)

	// Remove deletes an account.
	Remove(ctx context.Context, username string) (string, error)

	// SetAdmin changes an account's role.
	SetAdmin(ctx context.Context, username string, isAdmin bool) (string, error)
}
