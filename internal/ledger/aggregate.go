package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// Balances is the dashboard headline figure set for one month. Income and
// Expense are that month's cash flow; Balance is the all-time net over
// every non-card transaction ever recorded. The asymmetry is intentional:
// the dashboard shows this month's flow against cumulative net worth.
type Balances struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// TrendPoint is one month's income/expense pair in the 6-month trend.
type TrendPoint struct {
	Month   model.MonthKey  `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CalculateBalances computes the month's income and expense flows plus the
// running all-time balance. Card-tagged transactions are excluded
// throughout: they surface on their card's invoice, and the cash impact of
// a card happens when the invoice is paid.
func (l *Ledger) CalculateBalances(month model.MonthKey) Balances {
	b := Balances{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	for _, tx := range l.transactions {
		if tx.CardRef != "" {
			continue
		}
		switch tx.Kind {
		case model.Income:
			b.Balance = b.Balance.Add(tx.Amount)
			if model.MonthOf(tx.OccurredAt) == month {
				b.Income = b.Income.Add(tx.Amount)
			}
		case model.Expense:
			b.Balance = b.Balance.Sub(tx.Amount)
			if model.MonthOf(tx.OccurredAt) == month {
				b.Expense = b.Expense.Add(tx.Amount)
			}
		}
	}
	return b
}

// ProjectedBalance extends the running balance with what the month still
// has in flight: expected income, minus unpaid fixed bills, open card
// invoices and expected expenses.
func (l *Ledger) ProjectedBalance(month model.MonthKey) decimal.Decimal {
	projected := l.CalculateBalances(month).Balance

	for _, f := range l.forecasts {
		if !ForecastAppliesToMonth(f, month) {
			continue
		}
		if f.Kind == model.ExpectedIncome {
			projected = projected.Add(f.Value)
		} else {
			projected = projected.Sub(f.Value)
		}
	}

	for _, b := range l.fixedBills {
		if BillAppliesToMonth(b, month) && !b.PaidMonths.Contains(month) {
			projected = projected.Sub(b.BaseValue)
		}
	}

	for _, card := range l.cards {
		if card.PaidInvoices.Contains(month) {
			continue
		}
		due, _ := l.CalculateCardInvoice(card.ID, month)
		paid, _ := l.CalculateTotalPaid(card.ID, month)
		if open := due.Sub(paid); open.IsPositive() {
			projected = projected.Sub(open)
		}
	}

	return projected
}

// Trend recomputes the monthly flows for the selected month and the five
// months before it, oldest first.
func (l *Ledger) Trend(month model.MonthKey) []TrendPoint {
	points := make([]TrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		m := month.AddMonths(-i)
		b := l.CalculateBalances(m)
		points = append(points, TrendPoint{Month: m, Income: b.Income, Expense: b.Expense})
	}
	return points
}

// CategorySpend totals the month's non-card expenses per category, feeding
// budget progress on the dashboard.
func (l *Ledger) CategorySpend(month model.MonthKey) map[string]decimal.Decimal {
	spend := make(map[string]decimal.Decimal)
	for _, tx := range l.transactions {
		if tx.Kind != model.Expense || tx.CardRef != "" {
			continue
		}
		if model.MonthOf(tx.OccurredAt) != month {
			continue
		}
		cur, ok := spend[tx.Category]
		if !ok {
			cur = decimal.Zero
		}
		spend[tx.Category] = cur.Add(tx.Amount)
	}
	return spend
}
