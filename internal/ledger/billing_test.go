package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

func TestResolveBillingMonth(t *testing.T) {
	card := &model.CreditCard{ID: "c1", Name: "Visa", BestPurchaseDay: 20}

	tests := []struct {
		name string
		date time.Time
		want model.MonthKey
	}{
		{"before cutoff stays in own month", date(2025, time.June, 19), "2025-06"},
		{"on cutoff rolls to next month", date(2025, time.June, 20), "2025-07"},
		{"after cutoff rolls to next month", date(2025, time.June, 28), "2025-07"},
		{"december rolls the year", date(2025, time.December, 25), "2026-01"},
		{"first of month before cutoff", date(2025, time.January, 1), "2025-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBillingMonth(tt.date, card))
		})
	}
}

func TestBillingMonthInvariantOnInsert(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Visa", 10)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("250"),
		Description: "headphones",
		OccurredAt:  date(2025, time.November, 12),
		CardID:      card.ID,
	}, 1)
	require.NoError(t, err)

	for _, tx := range created {
		assert.Equal(t, ResolveBillingMonth(tx.OccurredAt, card), tx.BillingMonth)
	}
}

func TestSplitInstallments(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Visa", 20)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("300"),
		Description: "sofa",
		Category:    "home",
		OccurredAt:  date(2025, time.November, 25),
		CardID:      card.ID,
	}, 3)
	require.NoError(t, err)
	require.Len(t, created, 3)

	sum := dec("0")
	for i, tx := range created {
		sum = sum.Add(tx.Amount)
		assert.Equal(t, "100", tx.Amount.String())
		assert.Equal(t, fmt.Sprintf("sofa (%d/3)", i+1), tx.Description)
		assert.Equal(t, date(2025, time.November, 25).AddDate(0, i, 0), tx.OccurredAt)
		assert.Equal(t, ResolveBillingMonth(tx.OccurredAt, card), tx.BillingMonth)
		if i > 0 {
			assert.LessOrEqual(t, string(created[i-1].BillingMonth), string(tx.BillingMonth))
		}
	}
	assert.True(t, sum.Equal(dec("300")))

	// 25th is past the cutoff, so the first installment already rolls:
	// Dec, Jan, Feb — across the year boundary.
	assert.Equal(t, model.MonthKey("2025-12"), created[0].BillingMonth)
	assert.Equal(t, model.MonthKey("2026-01"), created[1].BillingMonth)
	assert.Equal(t, model.MonthKey("2026-02"), created[2].BillingMonth)
}

func TestSplitInstallmentsNonDivisibleTotal(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Visa", 20)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("100"),
		Description: "shoes",
		OccurredAt:  date(2025, time.June, 1),
		CardID:      card.ID,
	}, 3)
	require.NoError(t, err)

	// Naive even split: the sum can drift by a fraction of a cent, but
	// never more.
	sum := dec("0")
	for _, tx := range created {
		sum = sum.Add(tx.Amount)
	}
	assert.True(t, sum.Sub(dec("100")).Abs().LessThan(dec("0.01")),
		"sum %s drifted more than a cent from 100", sum)
}

func TestSingleInstallmentKeepsDescription(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Visa", 20)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("42"),
		Description: "book",
		OccurredAt:  date(2025, time.June, 1),
		CardID:      card.ID,
	}, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "book", created[0].Description)
}
