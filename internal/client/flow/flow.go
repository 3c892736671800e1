// Package flow implements the shared password-entry workflow. One manager
// exists per console; each Open discards the previous dialog by bumping a
// generation counter, so at most one dialog can ever submit. This replaces
// the re-bindable submit handler of a long-lived form with an explicit
// per-open state object.
package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/whawty/auth-console/internal/client/advisor"
	"github.com/whawty/auth-console/internal/client/api"
	"github.com/whawty/auth-console/internal/logging"
)

// Purpose selects which API call a dialog's submit performs.
type Purpose int

const (
	// SelfChange updates the caller's own password.
	SelfChange Purpose = iota
	// AdminChange updates another account's password on its behalf.
	AdminChange
	// AdminCreate creates a new account with the collected password.
	AdminCreate
)

func (p Purpose) String() string {
	switch p {
	case SelfChange:
		return "self-change"
	case AdminChange:
		return "admin-change"
	case AdminCreate:
		return "admin-create"
	default:
		return fmt.Sprintf("purpose(%d)", int(p))
	}
}

var (
	// ErrSuperseded is returned when a dialog from an earlier Open tries
	// to submit after a newer one was opened. The call never reaches the
	// network.
	ErrSuperseded = errors.New("password dialog superseded by a newer one")

	// ErrEmptyPassword and ErrPasswordMismatch are local validation
	// failures; they never generate a request.
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
)

// Manager hands out dialogs and tracks which one is live.
type Manager struct {
	api api.Client
	log logging.Logger
	gen uint64
}

func NewManager(client api.Client, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Manager{api: client, log: log.With("component", "flow")}
}

// Dialog is the state of one password-entry workflow: its purpose, the
// target account, the pending role flag (AdminCreate only) and the
// generation that keeps it unique.
type Dialog struct {
	m       *Manager
	gen     uint64
	purpose Purpose
	target  string
	isAdmin bool
}

// Open starts a fresh dialog for the given purpose and target, superseding
// any dialog returned earlier. isAdmin is only meaningful for AdminCreate.
func (m *Manager) Open(purpose Purpose, target string, isAdmin bool) *Dialog {
	m.gen++
	m.log.Debug(context.Background(), "dialog opened",
		"purpose", purpose.String(), "target", target, "generation", m.gen)
	return &Dialog{m: m, gen: m.gen, purpose: purpose, target: target, isAdmin: isAdmin}
}

// Close retires the current dialog without opening a new one.
func (m *Manager) Close() {
	m.gen++
}

// Target returns the account the dialog operates on.
func (d *Dialog) Target() string { return d.target }

// Purpose returns what a successful submit will do.
func (d *Dialog) Purpose() Purpose { return d.purpose }

// Superseded reports whether a newer dialog has been opened since this one.
func (d *Dialog) Superseded() bool { return d.gen != d.m.gen }

// Submit validates the collected password locally and then performs the
// purpose-specific API call. Validation failures and supersession are
// reported without any network traffic. On API failure the dialog stays
// live, so the caller may collect a new password and submit again.
func (d *Dialog) Submit(ctx context.Context, password, confirm string) (string, error) {
	if d.Superseded() {
		return "", ErrSuperseded
	}
	if password == "" {
		return "", ErrEmptyPassword
	}
	if !advisor.Gate(password, confirm) {
		return "", ErrPasswordMismatch
	}

	var (
		username string
		err      error
	)
	switch d.purpose {
	case AdminCreate:
		username, err = d.m.api.Add(ctx, d.target, password, d.isAdmin)
	default:
		username, err = d.m.api.Update(ctx, d.target, password)
	}
	if err != nil {
		return "", err
	}

	if d.Superseded() {
		// the completion of a stale in-flight submit is discarded
		return "", ErrSuperseded
	}
	d.m.Close()
	return username, nil
}
