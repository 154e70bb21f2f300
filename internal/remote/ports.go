// Package remote defines the surface of the external authenticated data
// service that holds the transactions table. The core only ever talks to
// these ports; concrete adapters live in the subpackages.
package remote

import (
	"context"

	"github.com/galihfr09/CashTracker/internal/core"
)

type (
	// Authenticator exposes the external auth collaborator. A nil session
	// with a nil error means "not signed in"; auth failures surface as an
	// absent session, never as an error value.
	Authenticator interface {
		// Session returns the current session, or nil when absent.
		Session(ctx context.Context) (*core.Session, error)
		// OnAuthChange registers fn to be invoked with the new session
		// (or nil) whenever authentication state changes. The returned
		// function unregisters the callback.
		OnAuthChange(fn func(*core.Session)) (unsubscribe func())
		// SignOut clears the remote session.
		SignOut(ctx context.Context) error
	}

	// DataStore is the query/insert surface over the transactions table.
	DataStore interface {
		// ListTransactions returns all transactions belonging to owner,
		// ordered by date descending.
		ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error)
		// InsertTransaction persists the record and returns the canonical
		// row with the remote-assigned id and normalized amount.
		InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	}

	// PasswordAuthenticator is implemented by adapters that support
	// interactive email/password sign-in.
	PasswordAuthenticator interface {
		Authenticator
		SignIn(ctx context.Context, email, password string) (*core.Session, error)
	}
)
