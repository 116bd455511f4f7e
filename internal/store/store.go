// Package store persists ledger state. The engine itself never touches a
// store: mutations flow out of it through a Journal and are flushed here,
// and reads start from a loaded snapshot. Two implementations exist, an
// in-memory store for local development and tests and a Firestore-backed
// one for production.
package store

import (
	"context"
	"errors"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// ErrProfileNotFound is returned by GetUserProfile for users that have
// never been seen.
var ErrProfileNotFound = errors.New("user profile not found")

// Store defines the persistence operations for one user's ledger documents.
type Store interface {
	// LoadSnapshot reads the user's entire ledger state.
	LoadSnapshot(ctx context.Context, userID string) (*model.Snapshot, error)

	PutTransaction(ctx context.Context, userID string, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	PutFixedBill(ctx context.Context, userID string, b *model.FixedBill) error
	DeleteFixedBill(ctx context.Context, userID, id string) error

	PutForecast(ctx context.Context, userID string, f *model.Forecast) error
	DeleteForecast(ctx context.Context, userID, id string) error

	PutCard(ctx context.Context, userID string, c *model.CreditCard) error
	DeleteCard(ctx context.Context, userID, id string) error

	PutBudget(ctx context.Context, userID string, b *model.BudgetLimit) error

	// User profile operations back the trial/paywall gate.
	GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	PutUserProfile(ctx context.Context, userID string, p *model.UserProfile) error
}
