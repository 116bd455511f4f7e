// Package ledger implements the in-memory ledger engine: entry storage,
// billing-cycle resolution, installment splitting, fixed-bill and forecast
// recurrence, invoice settlement and balance aggregation. The engine is
// synchronous and single-caller; the surrounding persistence layer is an
// external collaborator reached only through the Recorder hook.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// Ledger owns one user's entry collections. Construct isolated instances
// with New; there is no process-wide shared state.
type Ledger struct {
	transactions []*model.Transaction
	fixedBills   []*model.FixedBill
	forecasts    []*model.Forecast
	cards        []*model.CreditCard
	budgets      []*model.BudgetLimit

	rec Recorder
	now func() time.Time
}

// New builds a Ledger seeded from snap. A nil recorder disables
// write-through.
func New(snap *model.Snapshot, rec Recorder) *Ledger {
	if rec == nil {
		rec = NoopRecorder{}
	}
	l := &Ledger{rec: rec, now: time.Now}
	if snap != nil {
		l.transactions = append(l.transactions, snap.Transactions...)
		l.fixedBills = append(l.fixedBills, snap.FixedBills...)
		l.forecasts = append(l.forecasts, snap.Forecasts...)
		l.cards = append(l.cards, snap.Cards...)
		l.budgets = append(l.budgets, snap.Budgets...)
	}
	return l
}

// Snapshot returns the full current state for persistence or inspection.
func (l *Ledger) Snapshot() *model.Snapshot {
	return &model.Snapshot{
		Transactions: append([]*model.Transaction(nil), l.transactions...),
		FixedBills:   append([]*model.FixedBill(nil), l.fixedBills...),
		Forecasts:    append([]*model.Forecast(nil), l.forecasts...),
		Cards:        append([]*model.CreditCard(nil), l.cards...),
		Budgets:      append([]*model.BudgetLimit(nil), l.budgets...),
	}
}

// TransactionInput carries the fields a caller supplies to create a
// transaction. CardID, when set, tags the entry to that card's invoice.
type TransactionInput struct {
	Kind        model.TransactionKind
	Amount      decimal.Decimal
	Description string
	Category    string
	OccurredAt  time.Time
	CardID      string
}

func (in *TransactionInput) validate() error {
	if in.Kind != model.Income && in.Kind != model.Expense {
		return invalidField("kind", "must be INCOME or EXPENSE")
	}
	if in.Description == "" {
		return invalidField("description", "is required")
	}
	if in.OccurredAt.IsZero() {
		return invalidField("occurredAt", "is required")
	}
	return nil
}

// AddTransaction validates the input, expands it into installmentCount
// dated entries (see SplitInstallments) and inserts them. Card-tagged
// entries get their billing month resolved against the card's cutoff;
// non-card expenses feed the matching budget accumulator.
func (l *Ledger) AddTransaction(in TransactionInput, installmentCount int) ([]*model.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if installmentCount < 1 {
		return nil, invalidField("installmentCount", "must be at least 1")
	}
	if installmentCount > 1 && in.CardID == "" {
		return nil, invalidField("installmentCount", "installments require a card reference")
	}

	var card *model.CreditCard
	if in.CardID != "" {
		card = l.findCard(in.CardID)
		if card == nil {
			return nil, ErrInvalidCardReference
		}
	}

	created := SplitInstallments(in, card, installmentCount, l.now())
	for _, tx := range created {
		l.insertTransaction(tx)
	}
	return created, nil
}

// TransactionPatch is a partial update; nil fields are left untouched.
type TransactionPatch struct {
	Kind        *model.TransactionKind
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	OccurredAt  *time.Time
	CardID      *string
}

// UpdateTransaction applies patch to the transaction with the given id.
// When the date or the card reference changes, the billing month is
// re-resolved so the card invariant keeps holding.
func (l *Ledger) UpdateTransaction(id string, patch TransactionPatch) (*model.Transaction, error) {
	tx := l.findTransaction(id)
	if tx == nil {
		return nil, ErrNotFound
	}

	if patch.Kind != nil {
		if *patch.Kind != model.Income && *patch.Kind != model.Expense {
			return nil, invalidField("kind", "must be INCOME or EXPENSE")
		}
		tx.Kind = *patch.Kind
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			return nil, invalidField("description", "is required")
		}
		tx.Description = *patch.Description
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}

	rebill := false
	if patch.OccurredAt != nil {
		if patch.OccurredAt.IsZero() {
			return nil, invalidField("occurredAt", "is required")
		}
		tx.OccurredAt = *patch.OccurredAt
		rebill = true
	}
	if patch.CardID != nil {
		tx.CardRef = *patch.CardID
		rebill = true
	}

	if rebill {
		if tx.CardRef == "" {
			tx.BillingMonth = ""
		} else {
			card := l.findCard(tx.CardRef)
			if card == nil {
				return nil, ErrInvalidCardReference
			}
			tx.BillingMonth = ResolveBillingMonth(tx.OccurredAt, card)
		}
	}

	tx.UpdatedAt = l.now()
	l.rec.PutTransaction(tx)
	return tx, nil
}

// DeleteTransaction removes the transaction with the given id. Budget
// accumulators are deliberately not decremented.
func (l *Ledger) DeleteTransaction(id string) error {
	for i, tx := range l.transactions {
		if tx.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			l.rec.RemoveTransaction(id)
			return nil
		}
	}
	return ErrNotFound
}

// TransactionsByMonth returns the month's cash-flow entries, oldest first.
// Card-tagged transactions are excluded: they surface under their card's
// invoice instead of the bare month view.
func (l *Ledger) TransactionsByMonth(month model.MonthKey) []*model.Transaction {
	var out []*model.Transaction
	for _, tx := range l.transactions {
		if tx.CardRef == "" && model.MonthOf(tx.OccurredAt) == month {
			out = append(out, tx)
		}
	}
	return out
}

// InvoiceTransactions returns the entries billed to one card's invoice for
// the given month.
func (l *Ledger) InvoiceTransactions(cardID string, month model.MonthKey) []*model.Transaction {
	var out []*model.Transaction
	for _, tx := range l.transactions {
		if tx.CardRef == cardID && tx.BillingMonth == month {
			out = append(out, tx)
		}
	}
	return out
}

// CardInput carries the fields to create a credit card.
type CardInput struct {
	Name            string
	Limit           decimal.Decimal
	DueDay          int
	BestPurchaseDay int
}

// AddCreditCard registers a new card.
func (l *Ledger) AddCreditCard(in CardInput) (*model.CreditCard, error) {
	if in.Name == "" {
		return nil, invalidField("name", "is required")
	}
	if in.DueDay < 1 || in.DueDay > 31 {
		return nil, invalidField("dueDay", "must be between 1 and 31")
	}
	if in.BestPurchaseDay < 1 || in.BestPurchaseDay > 31 {
		return nil, invalidField("bestPurchaseDay", "must be between 1 and 31")
	}
	card := &model.CreditCard{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Limit:           in.Limit,
		DueDay:          in.DueDay,
		BestPurchaseDay: in.BestPurchaseDay,
	}
	l.cards = append(l.cards, card)
	l.rec.PutCard(card)
	return card, nil
}

// CardPatch is a partial card update; nil fields are left untouched.
type CardPatch struct {
	Name            *string
	Limit           *decimal.Decimal
	DueDay          *int
	BestPurchaseDay *int
}

// UpdateCreditCard applies patch to the card with the given id. Existing
// transactions keep their billing month: the cutoff applies at write time.
func (l *Ledger) UpdateCreditCard(id string, patch CardPatch) (*model.CreditCard, error) {
	card := l.findCard(id)
	if card == nil {
		return nil, ErrNotFound
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, invalidField("name", "is required")
		}
		card.Name = *patch.Name
	}
	if patch.Limit != nil {
		card.Limit = *patch.Limit
	}
	if patch.DueDay != nil {
		if *patch.DueDay < 1 || *patch.DueDay > 31 {
			return nil, invalidField("dueDay", "must be between 1 and 31")
		}
		card.DueDay = *patch.DueDay
	}
	if patch.BestPurchaseDay != nil {
		if *patch.BestPurchaseDay < 1 || *patch.BestPurchaseDay > 31 {
			return nil, invalidField("bestPurchaseDay", "must be between 1 and 31")
		}
		card.BestPurchaseDay = *patch.BestPurchaseDay
	}
	l.rec.PutCard(card)
	return card, nil
}

// DeleteCreditCard removes a card and cascades: every transaction tagged
// with the card is removed with it.
func (l *Ledger) DeleteCreditCard(id string) error {
	card := l.findCard(id)
	if card == nil {
		return ErrNotFound
	}

	kept := l.transactions[:0]
	for _, tx := range l.transactions {
		if tx.CardRef == id {
			l.rec.RemoveTransaction(tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	l.transactions = kept

	for i, c := range l.cards {
		if c.ID == id {
			l.cards = append(l.cards[:i], l.cards[i+1:]...)
			break
		}
	}
	l.rec.RemoveCard(id)
	return nil
}

// Cards returns all registered cards.
func (l *Ledger) Cards() []*model.CreditCard {
	return append([]*model.CreditCard(nil), l.cards...)
}

// BudgetInput carries the fields to set a category budget.
type BudgetInput struct {
	Category     string
	MonthlyLimit decimal.Decimal
}

// SetBudgetLimit creates or updates the budget for a category. The spent
// accumulator survives limit changes.
func (l *Ledger) SetBudgetLimit(in BudgetInput) (*model.BudgetLimit, error) {
	if in.Category == "" {
		return nil, invalidField("category", "is required")
	}
	for _, b := range l.budgets {
		if b.Category == in.Category {
			b.MonthlyLimit = in.MonthlyLimit
			l.rec.PutBudget(b)
			return b, nil
		}
	}
	b := &model.BudgetLimit{
		ID:           uuid.New().String(),
		Category:     in.Category,
		MonthlyLimit: in.MonthlyLimit,
	}
	l.budgets = append(l.budgets, b)
	l.rec.PutBudget(b)
	return b, nil
}

// BudgetLimits returns all category budgets.
func (l *Ledger) BudgetLimits() []*model.BudgetLimit {
	return append([]*model.BudgetLimit(nil), l.budgets...)
}

// insertTransaction appends tx, notifies the recorder and feeds the budget
// accumulator for non-card expenses. Accumulators only ever grow; deleting
// a transaction later does not roll them back.
func (l *Ledger) insertTransaction(tx *model.Transaction) {
	l.transactions = append(l.transactions, tx)
	l.rec.PutTransaction(tx)

	if tx.Kind != model.Expense || tx.CardRef != "" {
		return
	}
	for _, b := range l.budgets {
		if b.Category == tx.Category {
			b.Spent = b.Spent.Add(tx.Amount)
			l.rec.PutBudget(b)
			return
		}
	}
}

func (l *Ledger) findTransaction(id string) *model.Transaction {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx
		}
	}
	return nil
}

func (l *Ledger) findCard(id string) *model.CreditCard {
	for _, c := range l.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}
