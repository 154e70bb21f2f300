package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
)

func TestListTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/transactions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("owner"); got != "eq.user-1" {
			t.Errorf("owner filter = %q", got)
		}
		if got := q.Get("order"); got != "transaction_date.desc" {
			t.Errorf("order = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon" {
			t.Errorf("apikey header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":"t2","transaction_date":"2024-03-02","description":"b","amount":10.5,"category":"Makan","owner":"user-1"},
			{"id":"t1","transaction_date":"2024-03-01","description":"a","amount":-5,"category":"Jajan","owner":"user-1"}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL, "anon")
	txs, err := c.ListTransactions(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != "t2" || txs[0].Date.String() != "2024-03-02" {
		t.Errorf("first row = %+v", txs[0])
	}
	if txs[1].Amount.String() != "-5" {
		t.Errorf("amount = %s, want -5", txs[1].Amount)
	}
}

func TestInsertTransactionReturnsCanonicalRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q", got)
		}
		var rows []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil || len(rows) != 1 {
			t.Fatalf("bad payload: %v", err)
		}
		if rows[0]["transaction_date"] != "2024-03-02" {
			t.Errorf("transaction_date = %v", rows[0]["transaction_date"])
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"assigned","transaction_date":"2024-03-02","description":"b","amount":"10.50","category":"Makan","owner":"user-1"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, "anon")
	in := core.Transaction{
		Date:        core.NewDate(2024, 3, 2),
		Description: "b",
		Amount:      mustAmount(t, "10.5"),
		Category:    "Makan",
		Owner:       "user-1",
	}
	got, err := c.InsertTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "assigned" {
		t.Errorf("id = %q, want remote-assigned id", got.ID)
	}
	if !got.Amount.Equal(in.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, in.Amount)
	}
}

func TestBackendErrorMessagePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"message":"new row violates row-level security policy"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "anon")
	_, err := c.ListTransactions(context.Background(), "user-1")
	var rerr *remote.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("want *remote.Error, got %T: %v", err, err)
	}
	if rerr.Message != "new row violates row-level security policy" {
		t.Errorf("message = %q", rerr.Message)
	}
}

func TestSignInEstablishesSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected auth request %s %s", r.URL.Path, r.URL.RawQuery)
		}
		io.WriteString(w, `{"access_token":"jwt","user":{"id":"user-1","email":"a@b.c"}}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "anon")
	var observed *core.Session
	unsubscribe := c.OnAuthChange(func(s *core.Session) { observed = s })
	defer unsubscribe()

	sess, err := c.SignIn(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.UserID != "user-1" {
		t.Errorf("user id = %q", sess.UserID)
	}
	if observed == nil || observed.UserID != "user-1" {
		t.Errorf("listener not notified, got %+v", observed)
	}

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if observed != nil {
		t.Errorf("listener should observe absent session after sign out")
	}
	if got, _ := c.Session(context.Background()); got != nil {
		t.Errorf("session should be absent after sign out, got %+v", got)
	}
}

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}
