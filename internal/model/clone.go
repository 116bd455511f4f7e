package model

// Clone helpers produce aliasing-safe copies so the persistence layer and
// the engine never share mutable state.

func cloneSet(s MonthSet) MonthSet {
	if s == nil {
		return nil
	}
	return append(MonthSet(nil), s...)
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.PaymentRef != nil {
		ref := *t.PaymentRef
		c.PaymentRef = &ref
	}
	return &c
}

// Clone returns a deep copy of the fixed bill.
func (b *FixedBill) Clone() *FixedBill {
	c := *b
	c.PaidMonths = cloneSet(b.PaidMonths)
	c.SkippedMonths = cloneSet(b.SkippedMonths)
	return &c
}

// Clone returns a deep copy of the forecast.
func (f *Forecast) Clone() *Forecast {
	c := *f
	c.SkippedMonths = cloneSet(f.SkippedMonths)
	return &c
}

// Clone returns a deep copy of the credit card.
func (cc *CreditCard) Clone() *CreditCard {
	c := *cc
	c.PaidInvoices = cloneSet(cc.PaidInvoices)
	return &c
}

// Clone returns a copy of the budget limit.
func (b *BudgetLimit) Clone() *BudgetLimit {
	c := *b
	return &c
}

// Clone returns a deep copy of the whole snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{}
	for _, t := range s.Transactions {
		out.Transactions = append(out.Transactions, t.Clone())
	}
	for _, b := range s.FixedBills {
		out.FixedBills = append(out.FixedBills, b.Clone())
	}
	for _, f := range s.Forecasts {
		out.Forecasts = append(out.Forecasts, f.Clone())
	}
	for _, c := range s.Cards {
		out.Cards = append(out.Cards, c.Clone())
	}
	for _, b := range s.Budgets {
		out.Budgets = append(out.Budgets, b.Clone())
	}
	return out
}
