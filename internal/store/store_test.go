package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
	"github.com/galihfr09/CashTracker/internal/remote/memory"
	"github.com/galihfr09/CashTracker/internal/session"
)

func newFixture(t *testing.T) (*memory.Store, *session.Manager, *Store) {
	t.Helper()
	backend := memory.New()
	sessions := session.NewManager(backend)
	if err := sessions.Start(context.Background()); err != nil {
		t.Fatalf("start sessions: %v", err)
	}
	t.Cleanup(sessions.Close)
	return backend, sessions, New(backend, sessions)
}

func validInput() core.TransactionInput {
	return core.TransactionInput{
		Date:        "2024-03-10",
		Description: "Grocery Store",
		Amount:      "-50.00",
		Category:    "Makan",
	}
}

func TestAddWithoutSession(t *testing.T) {
	_, _, s := newFixture(t)

	_, err := s.Add(context.Background(), validInput())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("collection altered: %d entries", len(got))
	}
	if !errors.Is(s.Err(), ErrNotAuthenticated) {
		t.Errorf("last error = %v", s.Err())
	}
}

func TestAddValidationFailure(t *testing.T) {
	backend, _, s := newFixture(t)
	backend.SignInAs("user-1", "a@b.c")

	in := validInput()
	in.Amount = "abc"
	_, err := s.Add(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("collection altered: %d entries", len(got))
	}
}

func TestFetchAllWithoutSession(t *testing.T) {
	_, _, s := newFixture(t)
	if err := s.FetchAll(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
}

func TestFetchAllReplacesCollection(t *testing.T) {
	backend, _, s := newFixture(t)
	sess := backend.SignInAs("user-1", "a@b.c")

	seed := []core.Transaction{
		{ID: "t1", Date: core.NewDate(2024, 3, 1), Description: "a", Amount: amt(t, "-5"), Category: "Jajan", Owner: sess.UserID},
		{ID: "t2", Date: core.NewDate(2024, 3, 2), Description: "b", Amount: amt(t, "10"), Category: "Aset", Owner: sess.UserID},
		{ID: "x", Date: core.NewDate(2024, 3, 3), Description: "other user", Amount: amt(t, "1"), Owner: "someone-else"},
	}
	backend.Seed(seed...)

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got := s.All()
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 owner-scoped", len(got))
	}
	if got[0].ID != "t2" || got[1].ID != "t1" {
		t.Errorf("not date descending: %s, %s", got[0].ID, got[1].ID)
	}
	if s.Err() != nil {
		t.Errorf("last error = %v, want nil after success", s.Err())
	}
}

func TestFetchFailureLeavesStateUntouched(t *testing.T) {
	backend := memory.New()
	failing := &failingStore{inner: backend}
	sessions := session.NewManager(backend)
	if err := sessions.Start(context.Background()); err != nil {
		t.Fatalf("start sessions: %v", err)
	}
	defer sessions.Close()
	s := New(failing, sessions)

	sess := backend.SignInAs("user-1", "a@b.c")
	backend.Seed(core.Transaction{ID: "t1", Date: core.NewDate(2024, 3, 1), Description: "a", Amount: amt(t, "1"), Owner: sess.UserID})

	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	failing.fail = true
	err := s.FetchAll(context.Background())
	var rerr *remote.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v, want *remote.Error", err)
	}
	if got := s.All(); len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("prior state lost: %+v", got)
	}
	if s.Err() == nil {
		t.Error("error not recorded")
	}
}

func TestEndToEndAddPrepends(t *testing.T) {
	backend, _, s := newFixture(t)
	sess := backend.SignInAs("user-1", "a@b.c")
	backend.Seed(
		core.Transaction{ID: "t1", Date: core.NewDate(2024, 3, 1), Description: "a", Amount: amt(t, "-5"), Category: "Jajan", Owner: sess.UserID},
		core.Transaction{ID: "t2", Date: core.NewDate(2024, 3, 2), Description: "b", Amount: amt(t, "10"), Category: "Aset", Owner: sess.UserID},
	)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	n := len(s.All())

	in := validInput() // dated 2024-03-10, later than anything seeded
	saved, err := s.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if saved.ID == "" {
		t.Error("canonical record missing remote-assigned id")
	}
	if saved.Owner != sess.UserID {
		t.Errorf("owner = %q, want %q", saved.Owner, sess.UserID)
	}

	got := s.All()
	if len(got) != n+1 {
		t.Fatalf("got %d entries, want %d", len(got), n+1)
	}
	if got[0].ID != saved.ID {
		t.Errorf("new entry not first: head is %s", got[0].ID)
	}
}

func TestSignOutClearsCollection(t *testing.T) {
	backend, sessions, s := newFixture(t)
	sess := backend.SignInAs("user-1", "a@b.c")
	backend.Seed(core.Transaction{ID: "t1", Date: core.NewDate(2024, 3, 1), Description: "a", Amount: amt(t, "1"), Owner: sess.UserID})
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	var cleared bool
	s.Subscribe(func(ev Event) {
		if ev.Type == EventCleared {
			cleared = true
		}
	})

	if err := sessions.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("collection not cleared on session loss: %d entries", len(got))
	}
	if !cleared {
		t.Error("listeners not notified of clear")
	}
	if s.Err() != nil {
		t.Errorf("last error should reset on clear, got %v", s.Err())
	}
}

func TestSubscribeReceivesAddEvent(t *testing.T) {
	backend, _, s := newFixture(t)
	backend.SignInAs("user-1", "a@b.c")

	var added *core.Transaction
	unsubscribe := s.Subscribe(func(ev Event) {
		if ev.Type == EventAdded {
			added = ev.Tx
		}
	})
	defer unsubscribe()

	saved, err := s.Add(context.Background(), validInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added == nil || added.ID != saved.ID {
		t.Errorf("listener event = %+v, want %s", added, saved.ID)
	}
}

// failingStore wraps a DataStore and fails on demand.
type failingStore struct {
	inner remote.DataStore
	fail  bool
}

func (f *failingStore) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	if f.fail {
		return nil, &remote.Error{Op: "list transactions", Message: "connection refused"}
	}
	return f.inner.ListTransactions(ctx, owner)
}

func (f *failingStore) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if f.fail {
		return core.Transaction{}, &remote.Error{Op: "insert transaction", Message: "connection refused"}
	}
	return f.inner.InsertTransaction(ctx, t)
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}
