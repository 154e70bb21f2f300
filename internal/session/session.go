// Package session tracks the authenticated-user context. The manager is
// the single place session state lives; components react to changes via
// explicit listener registration rather than ambient lookups.
package session

import (
	"context"
	"sync"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
)

type Manager struct {
	auth remote.Authenticator

	mu           sync.Mutex
	current      *core.Session
	listeners    map[int]func(*core.Session)
	nextListener int
	unsubscribe  func()
}

func NewManager(auth remote.Authenticator) *Manager {
	return &Manager{
		auth:      auth,
		listeners: make(map[int]func(*core.Session)),
	}
}

// Start primes the current session from the authenticator and subscribes
// to subsequent auth changes. Listeners registered before Start observe
// the initial session too.
func (m *Manager) Start(ctx context.Context) error {
	sess, err := m.auth.Session(ctx)
	if err != nil {
		return err
	}
	m.unsubscribe = m.auth.OnAuthChange(m.set)
	m.set(sess)
	return nil
}

// Close unregisters from the authenticator.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Current returns a copy of the active session. The second return is
// false while no session is active.
func (m *Manager) Current() (core.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return core.Session{}, false
	}
	return *m.current, true
}

// OnChange registers fn, invoked synchronously with the new session (or
// nil when cleared) after each atomic replacement. The returned function
// unregisters it.
func (m *Manager) OnChange(fn func(*core.Session)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// SignOut delegates to the authenticator; the resulting auth-change event
// clears the held session.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.auth.SignOut(ctx)
}

// set replaces the held session atomically and notifies listeners outside
// the lock.
func (m *Manager) set(sess *core.Session) {
	m.mu.Lock()
	m.current = sess
	fns := make([]func(*core.Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(sess)
	}
}
