// Package cli is the interactive console: a REPL whose available commands
// follow the session state. Logged out it only offers login; a logged-in
// user manages their own password; an admin additionally drives the full
// account list.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/whawty/auth-console/internal/client/advisor"
	"github.com/whawty/auth-console/internal/client/api"
	"github.com/whawty/auth-console/internal/client/config"
	"github.com/whawty/auth-console/internal/client/db"
	"github.com/whawty/auth-console/internal/client/flow"
	"github.com/whawty/auth-console/internal/client/models"
	"github.com/whawty/auth-console/internal/client/session"
	"github.com/whawty/auth-console/internal/logging"
)

// sessionStore is the slice of the session store the console needs.
// The real *session.Store satisfies it; tests provide fakes.
type sessionStore interface {
	Restore(ctx context.Context) (*models.Session, error)
	Login(ctx context.Context, identity string, isAdmin bool, lastChanged time.Time, token string) (*models.Session, error)
	Logout(ctx context.Context) error
	Current() *models.Session
}

type App struct {
	config   *config.Config
	sessions sessionStore
	api      api.Client
	advisor  *advisor.Advisor
	flows    *flow.Manager
	reader   *bufio.Reader
	out      io.Writer
	log      logging.Logger

	// identity preserved across a forced logout so the next login prompt
	// can offer it as default
	loginPrefill string

	// snapshot of the account list, replaced wholesale after every
	// mutating admin action
	users []models.UserRecord
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, cfg.Debug)

	conn, err := db.Open(context.Background(), cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("initializing state database: %w", err)
	}

	sessions := session.NewStore(conn, log)
	client := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, sessions, log)

	return &App{
		config:   cfg,
		sessions: sessions,
		api:      client,
		advisor:  advisor.New(),
		flows:    flow.NewManager(client, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		log:      log,
	}, nil
}

// Run restores any persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	restored, err := a.sessions.Restore(ctx)
	if err != nil {
		a.advisoryError("Session", err.Error())
	}
	if restored != nil {
		fmt.Fprintf(a.out, "Welcome back, %s (%s)\n", restored.Identity, restored.Role())
		if restored.IsAdmin {
			_ = a.ListUsers(ctx)
		}
	} else {
		fmt.Fprintln(a.out, "Please login (type 'help' for commands)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current() != nil
}

func (a *App) isAdmin() bool {
	s := a.sessions.Current()
	return s != nil && s.IsAdmin
}

func (a *App) status() string {
	s := a.sessions.Current()
	if s == nil {
		return "logged out"
	}
	return fmt.Sprintf("%s (%s)", s.Identity, s.Role())
}

// advisory mirrors the alert banners of the web console: a heading plus a
// message, printed in the scope of the active panel.
func (a *App) advisory(heading, message string) {
	fmt.Fprintf(a.out, "[%s] %s\n", heading, message)
}

func (a *App) advisoryError(heading, message string) {
	fmt.Fprintf(a.out, "[%s] ERROR: %s\n", heading, message)
}

// handleAPIError implements the central failure policy: an authorization
// failure forces a logout but keeps the identity around for the next login
// prompt; everything else is an advisory in the main panel with no state
// change.
func (a *App) handleAPIError(ctx context.Context, err error) {
	var unauthorized *api.UnauthorizedError
	if errors.As(err, &unauthorized) {
		identity := ""
		if s := a.sessions.Current(); s != nil {
			identity = s.Identity
		}
		if logoutErr := a.sessions.Logout(ctx); logoutErr != nil {
			a.log.Error(ctx, "logout after authorization failure", "error", logoutErr)
		}
		a.loginPrefill = identity
		a.users = nil
		a.advisoryError("Authentication failure", unauthorized.Error())
		return
	}
	a.advisoryError("API Error", err.Error())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04:05")
}
