package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/whawty/auth-console/internal/client/advisor"
	"github.com/whawty/auth-console/internal/client/api"
	"github.com/whawty/auth-console/internal/client/config"
	"github.com/whawty/auth-console/internal/client/flow"
	"github.com/whawty/auth-console/internal/client/models"
	"github.com/whawty/auth-console/internal/logging"
)

type fakeSessions struct {
	current     *models.Session
	loginErr    error
	logoutErr   error
	logoutCalls int
}

func (f *fakeSessions) Restore(context.Context) (*models.Session, error) {
	return f.current, nil
}

func (f *fakeSessions) Login(_ context.Context, identity string, isAdmin bool, lastChanged time.Time, token string) (*models.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.current = &models.Session{Identity: identity, IsAdmin: isAdmin, LastChanged: lastChanged, Token: token}
	c := *f.current
	return &c, nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logoutCalls++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	f.current = nil
	return nil
}

func (f *fakeSessions) Current() *models.Session {
	if f.current == nil {
		return nil
	}
	c := *f.current
	return &c
}

type fakeAPI struct {
	authResult *api.AuthResult
	authErr    error
	authUser   string
	authPass   string

	listRecords []models.UserRecord
	listErr     error
	listCalls   int

	addErr      error
	addCalls    int
	addAdmin    bool
	updateErr   error
	updateCalls int
	updateLast  string
	removeErr   error
	removeCalls int

	setAdminErr   error
	setAdminCalls int
	setAdminLast  bool
}

func (f *fakeAPI) Authenticate(_ context.Context, username, password string) (*api.AuthResult, error) {
	f.authUser, f.authPass = username, password
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authResult, nil
}

func (f *fakeAPI) ListFull(context.Context) ([]models.UserRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listRecords, nil
}

func (f *fakeAPI) Add(_ context.Context, username, password string, isAdmin bool) (string, error) {
	f.addCalls++
	f.addAdmin = isAdmin
	if f.addErr != nil {
		return "", f.addErr
	}
	return username, nil
}

func (f *fakeAPI) Update(_ context.Context, username, newPassword string) (string, error) {
	f.updateCalls++
	f.updateLast = newPassword
	if f.updateErr != nil {
		return "", f.updateErr
	}
	return username, nil
}

func (f *fakeAPI) Remove(_ context.Context, username string) (string, error) {
	f.removeCalls++
	if f.removeErr != nil {
		return "", f.removeErr
	}
	return username, nil
}

func (f *fakeAPI) SetAdmin(_ context.Context, username string, isAdmin bool) (string, error) {
	f.setAdminCalls++
	f.setAdminLast = isAdmin
	if f.setAdminErr != nil {
		return "", f.setAdminErr
	}
	return username, nil
}

func newTestApp(sessions *fakeSessions, client *fakeAPI) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config:   &config.Config{},
		sessions: sessions,
		api:      client,
		advisor:  advisor.New(),
		flows:    flow.NewManager(client, nil),
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      out,
		log:      logging.NewNopLogger(),
	}, out
}

func loggedIn(identity string, admin bool) *fakeSessions {
	return &fakeSessions{current: &models.Session{
		Identity:    identity,
		IsAdmin:     admin,
		LastChanged: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Token:       "tok1",
	}}
}

// stubPasswords replaces the masked input seam with a queue of canned
// answers; the returned restore function is registered as cleanup.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) (string, error) {
		if i >= len(answers) {
			return "", nil
		}
		answer := answers[i]
		i++
		return answer, nil
	}
	t.Cleanup(func() { getPassword = orig })
}
