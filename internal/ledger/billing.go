package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// ResolveBillingMonth maps a purchase date to the invoice month it counts
// against. Purchases on or after the card's best-purchase cutoff day roll
// to the following month's invoice; the year rolls over with December.
func ResolveBillingMonth(date time.Time, card *model.CreditCard) model.MonthKey {
	month := model.MonthOf(date)
	if date.Day() >= card.BestPurchaseDay {
		return month.Next()
	}
	return month
}

// SplitInstallments expands one purchase into count independent dated
// transactions. Each installment carries totalValue/count (naive even
// division, no remainder redistribution), a date advanced by its index in
// calendar months and, for card purchases, its own independently resolved
// billing month. There is no parent/child linkage between installments
// beyond the description suffix.
func SplitInstallments(in TransactionInput, card *model.CreditCard, count int, now time.Time) []*model.Transaction {
	perInstallment := in.Amount.Div(decimal.NewFromInt(int64(count)))

	out := make([]*model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		date := in.OccurredAt.AddDate(0, i, 0)
		description := in.Description
		if count > 1 {
			description = fmt.Sprintf("%s (%d/%d)", in.Description, i+1, count)
		}

		tx := &model.Transaction{
			ID:          uuid.New().String(),
			Kind:        in.Kind,
			Amount:      perInstallment,
			Description: description,
			Category:    in.Category,
			OccurredAt:  date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if card != nil {
			tx.CardRef = card.ID
			tx.BillingMonth = ResolveBillingMonth(date, card)
		}
		out = append(out, tx)
	}
	return out
}
