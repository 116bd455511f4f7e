// Package entitlement implements the trial/paywall gate. Entitlement state
// lives on the user's profile document in the same store as the ledger;
// payment processing happens elsewhere and only flips the premium flag.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
	"github.com/thiagodbh/lyvo-ledger/internal/store"
)

// DefaultTrialDays is the free-trial window granted on first sight.
const DefaultTrialDays = 14

// ErrTrialExpired is returned once the trial window has lapsed for a
// non-premium user.
var ErrTrialExpired = errors.New("trial expired")

// Gate decides whether a user may keep writing to their ledger.
type Gate struct {
	store     store.Store
	trialDays int
	now       func() time.Time
}

// NewGate creates a gate over the given store. trialDays <= 0 selects the
// default window.
func NewGate(s store.Store, trialDays int) *Gate {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Gate{store: s, trialDays: trialDays, now: time.Now}
}

// Check allows or denies access for userID. Users never seen before get a
// profile stamped with the trial start; premium users always pass; everyone
// else passes while inside the trial window and gets ErrTrialExpired after.
func (g *Gate) Check(ctx context.Context, userID string) error {
	profile, err := g.store.GetUserProfile(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		profile = &model.UserProfile{UserID: userID, TrialStartedAt: g.now()}
		if err := g.store.PutUserProfile(ctx, userID, profile); err != nil {
			return fmt.Errorf("stamp trial start: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user profile: %w", err)
	}

	if profile.Premium {
		return nil
	}
	if g.now().After(profile.TrialStartedAt.AddDate(0, 0, g.trialDays)) {
		return ErrTrialExpired
	}
	return nil
}

// SetPremium flips the premium flag on an existing profile, creating one
// if needed.
func (g *Gate) SetPremium(ctx context.Context, userID string, premium bool) error {
	profile, err := g.store.GetUserProfile(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		profile = &model.UserProfile{UserID: userID, TrialStartedAt: g.now()}
	} else if err != nil {
		return fmt.Errorf("load user profile: %w", err)
	}
	profile.Premium = premium
	return g.store.PutUserProfile(ctx, userID, profile)
}
