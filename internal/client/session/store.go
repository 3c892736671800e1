// Package session owns the console's authentication state: the in-memory
// Session value and its persisted copy in the local state database.
//
// The state machine has two states, logged out and logged in. A login
// transition persists all four session fields in one transaction, a logout
// clears them all. Nothing in between is ever written: a restore either
// yields the full session or nothing.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/whawty/auth-console/internal/client/models"
	"github.com/whawty/auth-console/internal/client/repositories/state"
	"github.com/whawty/auth-console/internal/dbx"
	"github.com/whawty/auth-console/internal/logging"
)

// Persisted keys. All four are written together on login and removed
// together on logout.
const (
	KeyUsername    = "auth_username"
	KeyAdmin       = "auth_admin"
	KeyLastChanged = "auth_lastchanged"
	KeySession     = "auth_session"
)

// ErrIncompleteLogin is returned by Login when identity or token is empty.
var ErrIncompleteLogin = errors.New("session identity and token must not be empty")

// Store is the single owner of the Session. Consumers read copies via
// Current and never mutate the session directly.
type Store struct {
	db      *sql.DB
	log     logging.Logger
	current *models.Session
}

func NewStore(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{db: db, log: log.With("component", "session")}
}

// Current returns a copy of the live session, or nil when logged out.
func (s *Store) Current() *models.Session {
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Token returns the current session token, or "" when logged out.
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Restore loads the persisted session, if any. Missing, empty or malformed
// fields all yield (nil, nil): a broken persisted state reads as logged out,
// never as a partially populated session.
func (s *Store) Restore(ctx context.Context) (*models.Session, error) {
	repo := state.NewSQLiteRepository(s.db)

	fields := make(map[string]string, 4)
	for _, key := range []string{KeyUsername, KeyAdmin, KeyLastChanged, KeySession} {
		value, err := repo.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("restoring session: %w", err)
		}
		if len(value) == 0 {
			return nil, nil
		}
		fields[key] = string(value)
	}

	var isAdmin bool
	switch fields[KeyAdmin] {
	case "true":
		isAdmin = true
	case "false":
		isAdmin = false
	default:
		s.log.Warn(ctx, "discarding persisted session with malformed admin flag")
		return nil, nil
	}

	lastChanged, err := time.Parse(time.RFC3339, fields[KeyLastChanged])
	if err != nil {
		s.log.Warn(ctx, "discarding persisted session with malformed timestamp", "error", err)
		return nil, nil
	}

	s.current = &models.Session{
		Identity:    fields[KeyUsername],
		IsAdmin:     isAdmin,
		LastChanged: lastChanged,
		Token:       fields[KeySession],
	}
	s.log.Info(ctx, "session restored", "identity", s.current.Identity, "role", s.current.Role())
	return s.Current(), nil
}

// Login enters the logged-in state and persists all four session fields in a
// single transaction. A failed authentication attempt never reaches this
// method; callers surface it as an advisory and stay logged out.
func (s *Store) Login(ctx context.Context, identity string, isAdmin bool, lastChanged time.Time, token string) (*models.Session, error) {
	if identity == "" || token == "" {
		return nil, ErrIncompleteLogin
	}

	admin := "false"
	if isAdmin {
		admin = "true"
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyUsername, []byte(identity)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyAdmin, []byte(admin)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyLastChanged, []byte(lastChanged.Format(time.RFC3339))); err != nil {
			return err
		}
		return repo.Set(ctx, KeySession, []byte(token))
	})
	if err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	s.current = &models.Session{
		Identity:    identity,
		IsAdmin:     isAdmin,
		LastChanged: lastChanged,
		Token:       token,
	}
	s.log.Info(ctx, "logged in", "identity", identity, "role", s.current.Role())
	return s.Current(), nil
}

// Logout clears the in-memory session and every persisted field. Calling it
// while already logged out is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		for _, key := range []string{KeyUsername, KeyAdmin, KeyLastChanged, KeySession} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	if s.current != nil {
		s.log.Info(ctx, "logged out", "identity", s.current.Identity)
	}
	s.current = nil
	return nil
}
