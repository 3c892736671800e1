package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whawty/auth-console/internal/client/models"
	"github.com/whawty/auth-console/internal/logging"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 4 << 20

// TokenSource supplies the current session token for authenticated calls.
// The session store satisfies this interface.
type TokenSource interface {
	Token() string
}

// HTTPClient implements Client against the service's JSON-over-POST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// post sends payload to endpoint and decodes the reply into out. Non-2xx
// statuses come back as *UnauthorizedError (401) or *CallError, carrying the
// server's error text when the body has one.
func (c *HTTPClient) post(ctx context.Context, endpoint string, payload any, out any) error {
	reqID := uuid.NewString()
	c.log.Debug(ctx, "sending request", "endpoint", endpoint, "reqid", reqID)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &CallError{Message: fmt.Sprintf("%s: %s", endpoint, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &CallError{Status: resp.StatusCode, Message: fmt.Sprintf("%s: reading reply: %s", endpoint, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := c.errorText(data, resp.StatusCode)
		c.log.Warn(ctx, "request failed", "endpoint", endpoint, "reqid", reqID,
			"status", resp.StatusCode, "message", message)
		if resp.StatusCode == http.StatusUnauthorized {
			return &UnauthorizedError{Message: message}
		}
		return &CallError{Status: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decoding reply: %w", endpoint, ErrMalformedReply)
	}
	c.log.Debug(ctx, "request succeeded", "endpoint", endpoint, "reqid", reqID)
	return nil
}

// errorText extracts the server's error string from a failure body, falling
// back to the HTTP status.
func (c *HTTPClient) errorText(data []byte, status int) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}

func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	var resp authenticateResponse
	err := c.post(ctx, "/api/authenticate", &authenticateRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Session == "" || resp.Username == "" {
		return nil, fmt.Errorf("authenticate: missing session or username: %w", ErrMalformedReply)
	}
	lastChanged, err := time.Parse(time.RFC3339, resp.LastChanged)
	if err != nil {
		return nil, fmt.Errorf("authenticate: bad lastchanged %q: %w", resp.LastChanged, ErrMalformedReply)
	}
	return &AuthResult{
		Token:       resp.Session,
		Identity:    resp.Username,
		IsAdmin:     resp.IsAdmin,
		LastChanged: lastChanged,
	}, nil
}

func (c *HTTPClient) ListFull(ctx context.Context) ([]models.UserRecord, error) {
	var resp listFullResponse
	err := c.post(ctx, "/api/list-full", &listFullRequest{Session: c.tokens.Token()}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.List == nil {
		return nil, fmt.Errorf("list-full: missing list: %w", ErrMalformedReply)
	}

	records := make([]models.UserRecord, 0, len(resp.List))
	for name, entry := range resp.List {
		// display data, a missing timestamp renders as the zero time
		lastChanged, _ := time.Parse(time.RFC3339, entry.LastChanged)
		records = append(records, models.UserRecord{
			Name:         name,
			IsAdmin:      entry.IsAdmin,
			LastChanged:  lastChanged,
			IsValid:      entry.IsValid,
			IsSupported:  entry.IsSupported,
			FormatID:     entry.FormatID,
			FormatParams: entry.FormatParams,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (c *HTTPClient) Add(ctx context.Context, username, password string, isAdmin bool) (string, error) {
	req := &addRequest{Session: c.tokens.Token(), Username: username, Password: password, IsAdmin: isAdmin}
	return c.postForUsername(ctx, "/api/add", req)
}

func (c *HTTPClient) Update(ctx context.Context, username, newPassword string) (string, error) {
	req := &updateRequest{Session: c.tokens.Token(), Username: username, NewPassword: newPassword}
	return c.postForUsername(ctx, "/api/update", req)
}

func (c *HTTPClient) Remove(ctx context.Context, username string) (string, error) {
	req := &removeRequest{Session: c.tokens.Token(), Username: username}
	return c.postForUsername(ctx, "/api/remove", req)
}

func (c *HTTPClient) SetAdmin(ctx context.Context, username string, isAdmin bool) (string, error) {
	req := &setAdminRequest{Session: c.tokens.Token(), Username: username, IsAdmin: isAdmin}
	return c.postForUsername(ctx, "/api/set-admin", req)
}

func (c *HTTPClient) postForUsername(ctx context.Context, endpoint string, payload any) (string, error) {
	var resp usernameResponse
	if err := c.post(ctx, endpoint, payload, &resp); err != nil {
		return "", err
	}
	if resp.Username == "" {
		return "", fmt.Errorf("%s: missing username: %w", endpoint, ErrMalformedReply)
	}
	return resp.Username, nil
}
