package store

import (
	"context"
	"fmt"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// Journal implements ledger.Recorder by buffering mutation events. The
// engine stays free of I/O: a host attaches a fresh Journal per operation,
// lets the engine run, then flushes the recorded mutations through a Store
// in the order they happened. Recorded entities are cloned at record time
// so later engine mutations cannot rewrite history.
type Journal struct {
	ops []journalOp
}

type journalOp func(ctx context.Context, s Store, userID string) error

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

// Len reports how many mutations are buffered.
func (j *Journal) Len() int { return len(j.ops) }

// Flush applies the buffered mutations to s in order. It stops at the
// first failure.
func (j *Journal) Flush(ctx context.Context, s Store, userID string) error {
	for i, op := range j.ops {
		if err := op(ctx, s, userID); err != nil {
			return fmt.Errorf("journal flush op %d: %w", i, err)
		}
	}
	j.ops = nil
	return nil
}

func (j *Journal) PutTransaction(tx *model.Transaction) {
	c := tx.Clone()
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.PutTransaction(ctx, userID, c)
	})
}

func (j *Journal) RemoveTransaction(id string) {
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.DeleteTransaction(ctx, userID, id)
	})
}

func (j *Journal) PutFixedBill(b *model.FixedBill) {
	c := b.Clone()
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.PutFixedBill(ctx, userID, c)
	})
}

func (j *Journal) RemoveFixedBill(id string) {
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.DeleteFixedBill(ctx, userID, id)
	})
}

func (j *Journal) PutForecast(f *model.Forecast) {
	c := f.Clone()
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.PutForecast(ctx, userID, c)
	})
}

func (j *Journal) RemoveForecast(id string) {
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.DeleteForecast(ctx, userID, id)
	})
}

func (j *Journal) PutCard(c *model.CreditCard) {
	cc := c.Clone()
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.PutCard(ctx, userID, cc)
	})
}

func (j *Journal) RemoveCard(id string) {
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.DeleteCard(ctx, userID, id)
	})
}

func (j *Journal) PutBudget(b *model.BudgetLimit) {
	c := b.Clone()
	j.ops = append(j.ops, func(ctx context.Context, s Store, userID string) error {
		return s.PutBudget(ctx, userID, c)
	})
}
