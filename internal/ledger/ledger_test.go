package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestLedger() *Ledger {
	l := New(nil, nil)
	l.now = func() time.Time { return date(2025, time.June, 15) }
	return l
}

func addCard(t *testing.T, l *Ledger, name string, bestPurchaseDay int) *model.CreditCard {
	t.Helper()
	card, err := l.AddCreditCard(CardInput{
		Name:            name,
		Limit:           dec("5000"),
		DueDay:          10,
		BestPurchaseDay: bestPurchaseDay,
	})
	require.NoError(t, err)
	return card
}

func TestAddTransactionValidation(t *testing.T) {
	l := newTestLedger()

	_, err := l.AddTransaction(TransactionInput{
		Kind:       model.Expense,
		Amount:     dec("10"),
		OccurredAt: date(2025, time.June, 1),
	}, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = l.AddTransaction(TransactionInput{
		Kind:        "WEIRD",
		Amount:      dec("10"),
		Description: "coffee",
		OccurredAt:  date(2025, time.June, 1),
	}, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Installments only make sense for card purchases.
	_, err = l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("300"),
		Description: "tv",
		OccurredAt:  date(2025, time.June, 1),
	}, 3)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestAddTransactionUnknownCard(t *testing.T) {
	l := newTestLedger()

	_, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("50"),
		Description: "groceries",
		OccurredAt:  date(2025, time.June, 1),
		CardID:      "no-such-card",
	}, 1)
	assert.ErrorIs(t, err, ErrInvalidCardReference)
}

func TestUpdateTransactionReResolvesBillingMonth(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Nubank", 20)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("80"),
		Description: "restaurant",
		OccurredAt:  date(2025, time.June, 5),
		CardID:      card.ID,
	}, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, model.MonthKey("2025-06"), created[0].BillingMonth)

	// Move the purchase past the cutoff: it must roll into July's invoice.
	newDate := date(2025, time.June, 25)
	updated, err := l.UpdateTransaction(created[0].ID, TransactionPatch{OccurredAt: &newDate})
	require.NoError(t, err)
	assert.Equal(t, model.MonthKey("2025-07"), updated.BillingMonth)
	assert.Equal(t, ResolveBillingMonth(updated.OccurredAt, card), updated.BillingMonth)

	// Detaching the card clears the billing month.
	noCard := ""
	updated, err = l.UpdateTransaction(created[0].ID, TransactionPatch{CardID: &noCard})
	require.NoError(t, err)
	assert.Empty(t, updated.BillingMonth)
}

func TestUpdateDeleteUnknownTransaction(t *testing.T) {
	l := newTestLedger()

	_, err := l.UpdateTransaction("missing", TransactionPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, l.DeleteTransaction("missing"), ErrNotFound)
}

func TestDeleteCreditCardCascades(t *testing.T) {
	l := newTestLedger()
	card := addCard(t, l, "Visa", 15)
	other := addCard(t, l, "Master", 15)

	_, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("900"),
		Description: "fridge",
		OccurredAt:  date(2025, time.June, 2),
		CardID:      card.ID,
	}, 3)
	require.NoError(t, err)

	_, err = l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("40"),
		Description: "fuel",
		OccurredAt:  date(2025, time.June, 2),
		CardID:      other.ID,
	}, 1)
	require.NoError(t, err)

	require.NoError(t, l.DeleteCreditCard(card.ID))

	for _, tx := range l.Snapshot().Transactions {
		assert.NotEqual(t, card.ID, tx.CardRef)
	}
	// The other card's entry survives.
	require.Len(t, l.Snapshot().Transactions, 1)
	assert.Equal(t, other.ID, l.Snapshot().Transactions[0].CardRef)
}

func TestBudgetAccumulator(t *testing.T) {
	l := newTestLedger()
	_, err := l.SetBudgetLimit(BudgetInput{Category: "food", MonthlyLimit: dec("600")})
	require.NoError(t, err)

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("120"),
		Description: "market",
		Category:    "food",
		OccurredAt:  date(2025, time.June, 3),
	}, 1)
	require.NoError(t, err)

	budgets := l.BudgetLimits()
	require.Len(t, budgets, 1)
	assert.Equal(t, "120", budgets[0].Spent.String())

	// Deleting the expense does not roll the accumulator back.
	require.NoError(t, l.DeleteTransaction(created[0].ID))
	assert.Equal(t, "120", l.BudgetLimits()[0].Spent.String())

	// Card expenses never touch the accumulator.
	card := addCard(t, l, "Visa", 15)
	_, err = l.AddTransaction(TransactionInput{
		Kind:        model.Expense,
		Amount:      dec("200"),
		Description: "dinner",
		Category:    "food",
		OccurredAt:  date(2025, time.June, 3),
		CardID:      card.ID,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, "120", l.BudgetLimits()[0].Spent.String())
}

type recordingRecorder struct {
	NoopRecorder
	putTx    []string
	removeTx []string
}

func (r *recordingRecorder) PutTransaction(tx *model.Transaction) { r.putTx = append(r.putTx, tx.ID) }
func (r *recordingRecorder) RemoveTransaction(id string)          { r.removeTx = append(r.removeTx, id) }

func TestRecorderSeesMutations(t *testing.T) {
	rec := &recordingRecorder{}
	l := New(nil, rec)
	l.now = func() time.Time { return date(2025, time.June, 15) }

	created, err := l.AddTransaction(TransactionInput{
		Kind:        model.Income,
		Amount:      dec("1000"),
		Description: "salary",
		OccurredAt:  date(2025, time.June, 1),
	}, 1)
	require.NoError(t, err)
	require.NoError(t, l.DeleteTransaction(created[0].ID))

	assert.Equal(t, []string{created[0].ID}, rec.putTx)
	assert.Equal(t, []string{created[0].ID}, rec.removeTx)
}
