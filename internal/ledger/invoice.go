package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// CalculateCardInvoice returns the amount due on one card's invoice for the
// given month: the sum of every transaction billed to that card and month.
func (l *Ledger) CalculateCardInvoice(cardID string, month model.MonthKey) (decimal.Decimal, error) {
	if l.findCard(cardID) == nil {
		return decimal.Zero, ErrNotFound
	}
	total := decimal.Zero
	for _, tx := range l.transactions {
		if tx.CardRef == cardID && tx.BillingMonth == month {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// CalculateTotalPaid returns how much has been paid toward one card's
// invoice for the given month, summing the payment transactions linked to
// it by payment reference.
func (l *Ledger) CalculateTotalPaid(cardID string, month model.MonthKey) (decimal.Decimal, error) {
	if l.findCard(cardID) == nil {
		return decimal.Zero, ErrNotFound
	}
	total := decimal.Zero
	for _, tx := range l.transactions {
		ref := tx.PaymentRef
		if tx.CardRef == "" && ref != nil && ref.Kind == model.RefInvoice &&
			ref.TargetID == cardID && ref.Month == month {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

// IsInvoicePaid reports whether the invoice for the given month has been
// settled in full.
func (l *Ledger) IsInvoicePaid(cardID string, month model.MonthKey) (bool, error) {
	card := l.findCard(cardID)
	if card == nil {
		return false, ErrNotFound
	}
	return card.PaidInvoices.Contains(month), nil
}

// PayInvoice records a payment against one card invoice. The payment lands
// as a plain expense (it reduces the cash balance) linked to the invoice by
// payment reference. The residual is then recomputed from scratch: any
// earlier residual for the following month is dropped, and if the total
// paid so far still falls short of the amount due, the shortfall is rolled
// onto the next invoice as a card-tagged charge. Fully settled invoices are
// marked paid. Because each call recomputes rather than accumulates,
// repeated partial payments converge without drift.
func (l *Ledger) PayInvoice(cardID string, month model.MonthKey, amountPaid decimal.Decimal) error {
	card := l.findCard(cardID)
	if card == nil {
		return ErrNotFound
	}
	if !amountPaid.IsPositive() {
		return invalidField("amountPaid", "must be positive")
	}

	now := l.now()
	l.insertTransaction(&model.Transaction{
		ID:          uuid.New().String(),
		Kind:        model.Expense,
		Amount:      amountPaid,
		Description: fmt.Sprintf("Pagamento Fatura: %s", card.Name),
		Category:    "fatura",
		OccurredAt:  month.DayIn(card.DueDay),
		PaymentRef:  &model.PaymentRef{Kind: model.RefInvoice, TargetID: cardID, Month: month},
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	totalDue, err := l.CalculateCardInvoice(cardID, month)
	if err != nil {
		return err
	}
	totalPaid, err := l.CalculateTotalPaid(cardID, month)
	if err != nil {
		return err
	}

	if residual := l.findByPaymentRef(model.RefInvoiceResidual, cardID, month); residual != nil {
		if err := l.DeleteTransaction(residual.ID); err != nil {
			return err
		}
	}

	if totalPaid.LessThan(totalDue) {
		next := month.Next()
		l.insertTransaction(&model.Transaction{
			ID:           uuid.New().String(),
			Kind:         model.Expense,
			Amount:       totalDue.Sub(totalPaid),
			Description:  fmt.Sprintf("Resíduo Fatura Anterior: %s", card.Name),
			Category:     "fatura",
			OccurredAt:   next.DayIn(1),
			CardRef:      cardID,
			BillingMonth: next,
			PaymentRef:   &model.PaymentRef{Kind: model.RefInvoiceResidual, TargetID: cardID, Month: month},
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		return nil
	}

	card.PaidInvoices = card.PaidInvoices.Add(month)
	l.rec.PutCard(card)
	return nil
}
