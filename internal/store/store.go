// Package store keeps the in-memory transaction collection synchronized
// with the remote store. All mutations are whole-value replacements
// followed by synchronous listener notification, so a render pass never
// observes a half-applied update.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
	"github.com/galihfr09/CashTracker/internal/session"
)

var (
	// ErrNotAuthenticated is returned when a data operation is attempted
	// with no active session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrValidation wraps the specific core sentinel describing the
	// malformed or missing field.
	ErrValidation = errors.New("validation failed")
)

// EventType describes what changed in the collection.
type EventType int

const (
	// EventReplaced: a full fetch replaced the collection.
	EventReplaced EventType = iota
	// EventAdded: a new transaction was prepended. Event.Tx is set.
	EventAdded
	// EventCleared: the collection was emptied on session loss.
	EventCleared
)

type Event struct {
	Type EventType
	Tx   *core.Transaction
}

type Store struct {
	remote   remote.DataStore
	sessions *session.Manager

	mu           sync.Mutex
	txs          []core.Transaction
	lastErr      error
	listeners    map[int]func(Event)
	nextListener int
}

// New builds a store bound to the given remote backend and session
// manager. The store clears itself whenever the session is lost, so a
// shared device never shows the previous user's rows.
func New(ds remote.DataStore, sessions *session.Manager) *Store {
	s := &Store{
		remote:    ds,
		sessions:  sessions,
		listeners: make(map[int]func(Event)),
	}
	sessions.OnChange(func(sess *core.Session) {
		if sess == nil {
			s.clear()
		}
	})
	return s
}

// All returns a copy of the current collection, newest date first as
// fetched. After a late-dated insert the head is the newest record; the
// rest of the order is display order, nothing relies on strict sorting.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// Err returns the last operation error, nil after a success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn, invoked synchronously after each atomic
// collection update. The returned function unregisters it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// FetchAll replaces the collection with the full owner-scoped result of a
// remote query. On failure the prior collection stays untouched and the
// error is recorded. Overlapping calls are not deduplicated; the last
// response to resolve wins.
func (s *Store) FetchAll(ctx context.Context) error {
	sess, ok := s.sessions.Current()
	if !ok {
		return s.fail(ErrNotAuthenticated)
	}

	rows, err := s.remote.ListTransactions(ctx, sess.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Fetching transactions failed", "owner", sess.UserID, "error", err)
		return s.fail(err)
	}

	s.mu.Lock()
	s.txs = rows
	s.lastErr = nil
	fns := s.listenerList()
	s.mu.Unlock()
	s.notify(fns, Event{Type: EventReplaced})

	slog.InfoContext(ctx, "Transactions fetched", "owner", sess.UserID, "tx_count", len(rows))
	return nil
}

// Add validates the input, stamps the owner from the active session,
// inserts via the remote store and prepends the returned canonical
// record. The collection is only strictly date-sorted afterwards if the
// new date is the most recent, which is all the display needs.
func (s *Store) Add(ctx context.Context, input core.TransactionInput) (core.Transaction, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return core.Transaction{}, s.fail(ErrNotAuthenticated)
	}

	tx, err := input.Transaction()
	if err != nil {
		return core.Transaction{}, s.fail(fmt.Errorf("%w: %v", ErrValidation, err))
	}
	tx.Owner = sess.UserID

	saved, err := s.remote.InsertTransaction(ctx, tx)
	if err != nil {
		slog.ErrorContext(ctx, "Inserting transaction failed", "owner", sess.UserID, "error", err)
		return core.Transaction{}, s.fail(err)
	}

	s.mu.Lock()
	next := make([]core.Transaction, 0, len(s.txs)+1)
	next = append(next, saved)
	next = append(next, s.txs...)
	s.txs = next
	s.lastErr = nil
	fns := s.listenerList()
	s.mu.Unlock()
	s.notify(fns, Event{Type: EventAdded, Tx: &saved})

	slog.InfoContext(ctx, "Transaction added",
		"owner", sess.UserID,
		"category", saved.Category,
		"amount", saved.Amount.String(),
		"date", saved.Date.String())
	return saved, nil
}

// fail records err as the single last-error value, overwriting any prior
// one, and returns it.
func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *Store) clear() {
	s.mu.Lock()
	s.txs = nil
	s.lastErr = nil
	fns := s.listenerList()
	s.mu.Unlock()
	s.notify(fns, Event{Type: EventCleared})
}

// listenerList snapshots callbacks under the lock.
func (s *Store) listenerList() []func(Event) {
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Store) notify(fns []func(Event), ev Event) {
	for _, fn := range fns {
		fn(ev)
	}
}
