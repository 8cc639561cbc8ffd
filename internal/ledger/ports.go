// Package ledger defines the ports the application uses to reach the
// persistent store. Implementations live in ledger/memory and storage.
package ledger

import (
	"context"
	"errors"

	"fincontrol/internal/core"
)

// ErrNotFound is returned by delete operations when no entity has the id.
var ErrNotFound = errors.New("not found")

type (
	ProfileStore interface {
		ListProfiles(ctx context.Context) ([]core.Profile, error)
		CreateProfile(ctx context.Context, p core.Profile) (core.Profile, error)
		// DeleteProfile removes a profile without cascading to its
		// transactions; dangling references are resolved at display time.
		DeleteProfile(ctx context.Context, id string) error
	}

	TransactionStore interface {
		// ListTransactions returns the full ledger; ordering is not
		// guaranteed, callers re-sort as needed.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		DeleteGoal(ctx context.Context, id string) error
	}

	// Resetter wipes the store back to a single default profile.
	Resetter interface {
		FactoryReset(ctx context.Context) (core.Profile, error)
	}

	// Store is the full persistence surface of the application.
	Store interface {
		ProfileStore
		TransactionStore
		GoalStore
		Resetter
	}
)
