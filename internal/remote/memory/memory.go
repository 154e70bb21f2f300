// Package memory is an in-process remote store used for development and
// tests. It implements both the data and the auth ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
)

type Store struct {
	mu   sync.Mutex
	rows []core.Transaction

	session      *core.Session
	listeners    map[int]func(*core.Session)
	nextListener int
}

var (
	_ remote.DataStore             = (*Store)(nil)
	_ remote.PasswordAuthenticator = (*Store)(nil)
)

func New() *Store {
	return &Store{listeners: make(map[int]func(*core.Session))}
}

// Seed preloads rows without going through the insert path.
func (s *Store) Seed(rows ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// SignIn establishes a session for the given user. The password is not
// checked; this backend trusts its caller.
func (s *Store) SignIn(_ context.Context, email, _ string) (*core.Session, error) {
	return s.establish(uuid.NewString(), email), nil
}

// SignInAs establishes a session with a fixed user id, for wiring a
// single-user deployment or a deterministic test.
func (s *Store) SignInAs(userID, email string) *core.Session {
	return s.establish(userID, email)
}

func (s *Store) establish(userID, email string) *core.Session {
	s.mu.Lock()
	sess := &core.Session{UserID: userID, Email: email}
	s.session = sess
	fns := s.listenerList()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
	return sess
}

func (s *Store) SignOut(_ context.Context) error {
	s.mu.Lock()
	s.session = nil
	fns := s.listenerList()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(nil)
	}
	return nil
}

func (s *Store) Session(_ context.Context) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *Store) OnAuthChange(fn func(*core.Session)) func() {
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

// listenerList snapshots callbacks so they run outside the lock.
func (s *Store) listenerList() []func(*core.Session) {
	fns := make([]func(*core.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Store) ListTransactions(_ context.Context, owner string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.rows))
	for _, t := range s.rows {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) InsertTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	s.rows = append(s.rows, t)
	return t, nil
}
