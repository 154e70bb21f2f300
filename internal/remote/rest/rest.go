// Package rest talks to a Supabase-style backend: PostgREST for the
// transactions table and the GoTrue password grant for authentication.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
)

const transactionsTable = "transactions"

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu           sync.Mutex
	session      *core.Session
	accessToken  string
	listeners    map[int]func(*core.Session)
	nextListener int
}

var (
	_ remote.DataStore             = (*Client)(nil)
	_ remote.PasswordAuthenticator = (*Client)(nil)
)

func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		http:      &http.Client{Timeout: 30 * time.Second},
		listeners: make(map[int]func(*core.Session)),
	}
}

// NewFromEnv creates a client from SUPABASE_URL and SUPABASE_ANON_KEY.
func NewFromEnv() (*Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	if baseURL == "" {
		return nil, errors.New("missing SUPABASE_URL")
	}
	anonKey := strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY"))
	if anonKey == "" {
		return nil, errors.New("missing SUPABASE_ANON_KEY")
	}
	return New(baseURL, anonKey), nil
}

// transactionRow is the wire shape of one row. Records are converted to
// typed core.Transaction values immediately after each remote call.
type transactionRow struct {
	ID          string      `json:"id,omitempty"`
	Date        string      `json:"transaction_date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Owner       string      `json:"owner"`
}

func toRow(t core.Transaction) transactionRow {
	return transactionRow{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		Category:    t.Category,
		Owner:       t.Owner,
	}
}

func (r transactionRow) transaction() (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", r.ID, err)
	}
	amount, err := core.ParseAmount(r.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %s: %w", r.ID, err)
	}
	return core.Transaction{
		ID:          r.ID,
		Date:        date,
		Description: r.Description,
		Amount:      amount,
		Category:    r.Category,
		Owner:       r.Owner,
	}, nil
}

// ListTransactions implements remote.DataStore.
func (c *Client) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	q := url.Values{}
	q.Set("select", "id,transaction_date,description,amount,category,owner")
	q.Set("owner", "eq."+owner)
	q.Set("order", "transaction_date.desc")

	body, err := c.do(ctx, http.MethodGet, "/rest/v1/"+transactionsTable+"?"+q.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &remote.Error{Op: "list transactions", Message: "decode response: " + err.Error()}
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		t, err := r.transaction()
		if err != nil {
			// A malformed row must not hide the rest of the data.
			slog.WarnContext(ctx, "Skipping malformed transaction row", "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// InsertTransaction implements remote.DataStore.
func (c *Client) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	payload, err := json.Marshal([]transactionRow{toRow(t)})
	if err != nil {
		return core.Transaction{}, &remote.Error{Op: "insert transaction", Message: err.Error()}
	}

	headers := map[string]string{"Prefer": "return=representation"}
	body, err := c.do(ctx, http.MethodPost, "/rest/v1/"+transactionsTable, payload, headers)
	if err != nil {
		return core.Transaction{}, err
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return core.Transaction{}, &remote.Error{Op: "insert transaction", Message: "backend returned no representation"}
	}
	return rows[0].transaction()
}

// SignIn implements remote.PasswordAuthenticator via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*core.Session, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", payload, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.AccessToken == "" {
		return nil, &remote.Error{Op: "sign in", Message: "malformed auth response"}
	}

	sess := &core.Session{UserID: resp.User.ID, Email: resp.User.Email}
	c.mu.Lock()
	c.session = sess
	c.accessToken = resp.AccessToken
	fns := c.listenerList()
	c.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
	return sess, nil
}

// Session implements remote.Authenticator. An expired or rejected token
// surfaces as an absent session, not an error.
func (c *Client) Session(ctx context.Context) (*core.Session, error) {
	c.mu.Lock()
	token := c.accessToken
	sess := c.session
	c.mu.Unlock()
	if token == "" {
		return nil, nil
	}
	if sess != nil {
		return sess, nil
	}

	body, err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil)
	if err != nil {
		return nil, nil
	}
	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &user); err != nil || user.ID == "" {
		return nil, nil
	}
	sess = &core.Session{UserID: user.ID, Email: user.Email}
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	return sess, nil
}

// SignOut clears the local session first, then revokes the token
// best-effort. Listeners always observe the absent session.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	hadToken := c.accessToken != ""
	c.session = nil
	c.accessToken = ""
	fns := c.listenerList()
	c.mu.Unlock()
	for _, fn := range fns {
		fn(nil)
	}
	if !hadToken {
		return nil
	}
	if _, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil); err != nil {
		slog.WarnContext(ctx, "Remote logout failed, session cleared locally", "error", err)
	}
	return nil
}

func (c *Client) OnAuthChange(fn func(*core.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) listenerList() []func(*core.Session) {
	fns := make([]func(*core.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// do performs one round-trip and returns the response body, translating
// transport and non-2xx failures into *remote.Error with the backend
// message intact.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	op := strings.ToLower(method) + " " + path
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &remote.Error{Op: op, Message: err.Error()}
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &remote.Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &remote.Error{Op: op, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &remote.Error{Op: op, Message: backendMessage(resp.StatusCode, body)}
	}
	return body, nil
}

// backendMessage extracts the error message PostgREST/GoTrue put in the
// body, falling back to the HTTP status.
func backendMessage(status int, body []byte) string {
	var e struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Msg != "":
			return e.Msg
		case e.ErrorDescription != "":
			return e.ErrorDescription
		}
	}
	return http.StatusText(status)
}
