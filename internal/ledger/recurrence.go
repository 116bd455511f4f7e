package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// DeleteMode selects how a recurring entity is removed relative to the
// month the user acted on.
type DeleteMode string

const (
	// DeleteThisMonthOnly skips the entity for one month and keeps the
	// recurrence alive.
	DeleteThisMonthOnly DeleteMode = "THIS_MONTH_ONLY"
	// DeleteThisAndFuture ends the recurrence from the given month onward.
	DeleteThisAndFuture DeleteMode = "THIS_AND_FUTURE"
)

// appliesToMonth is the shared recurrence predicate: an entity applies to a
// month when the month is not before its start, not in its skip set and,
// when an end month is set, strictly before it (half-open interval).
func appliesToMonth(start, ended model.MonthKey, skipped model.MonthSet, month model.MonthKey) bool {
	if month < start {
		return false
	}
	if ended != "" && month >= ended {
		return false
	}
	return !skipped.Contains(month)
}

// BillAppliesToMonth reports whether a fixed bill is owed in the given
// month.
func BillAppliesToMonth(b *model.FixedBill, month model.MonthKey) bool {
	return appliesToMonth(b.StartMonth, b.EndedAt, b.SkippedMonths, month)
}

// ForecastAppliesToMonth reports whether a forecast is expected in the
// given month. Non-recurring forecasts apply only in their own start month.
func ForecastAppliesToMonth(f *model.Forecast, month model.MonthKey) bool {
	if !f.IsRecurring && month != f.StartMonth {
		return false
	}
	return appliesToMonth(f.StartMonth, f.EndedAt, f.SkippedMonths, month)
}

// FixedBillInput carries the fields to create a fixed bill.
type FixedBillInput struct {
	Name        string
	BaseValue   decimal.Decimal
	DueDay      int
	Category    string
	IsRecurring bool
}

// AddFixedBill registers a fixed bill starting in the given month.
func (l *Ledger) AddFixedBill(in FixedBillInput, month model.MonthKey) (*model.FixedBill, error) {
	if in.Name == "" {
		return nil, invalidField("name", "is required")
	}
	if in.DueDay < 1 || in.DueDay > 31 {
		return nil, invalidField("dueDay", "must be between 1 and 31")
	}
	b := &model.FixedBill{
		ID:          uuid.New().String(),
		Name:        in.Name,
		BaseValue:   in.BaseValue,
		DueDay:      in.DueDay,
		Category:    in.Category,
		IsRecurring: in.IsRecurring,
		StartMonth:  month,
	}
	l.fixedBills = append(l.fixedBills, b)
	l.rec.PutFixedBill(b)
	return b, nil
}

// ToggleFixedBillStatus flips a bill between unpaid and paid for one month.
// Marking paid inserts a real expense transaction linked back to the bill;
// toggling again deletes that same transaction by its payment reference and
// clears the month, so a full round trip leaves the ledger unchanged.
func (l *Ledger) ToggleFixedBillStatus(id string, month model.MonthKey) (*model.FixedBill, error) {
	bill := l.findFixedBill(id)
	if bill == nil {
		return nil, ErrNotFound
	}

	if bill.PaidMonths.Contains(month) {
		if tx := l.findByPaymentRef(model.RefFixedBill, id, month); tx != nil {
			if err := l.DeleteTransaction(tx.ID); err != nil {
				return nil, err
			}
		}
		bill.PaidMonths = bill.PaidMonths.Remove(month)
		l.rec.PutFixedBill(bill)
		return bill, nil
	}

	now := l.now()
	l.insertTransaction(&model.Transaction{
		ID:          uuid.New().String(),
		Kind:        model.Expense,
		Amount:      bill.BaseValue,
		Description: bill.Name,
		Category:    bill.Category,
		OccurredAt:  month.DayIn(bill.DueDay),
		PaymentRef:  &model.PaymentRef{Kind: model.RefFixedBill, TargetID: id, Month: month},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	bill.PaidMonths = bill.PaidMonths.Add(month)
	l.rec.PutFixedBill(bill)
	return bill, nil
}

// DeleteFixedBill removes a bill for one month (skip) or from a month
// onward. Ending a recurrence at or before its start month removes the
// record entirely.
func (l *Ledger) DeleteFixedBill(id string, mode DeleteMode, month model.MonthKey) error {
	bill := l.findFixedBill(id)
	if bill == nil {
		return ErrNotFound
	}
	switch mode {
	case DeleteThisMonthOnly:
		bill.SkippedMonths = bill.SkippedMonths.Add(month)
		l.rec.PutFixedBill(bill)
	case DeleteThisAndFuture:
		if month <= bill.StartMonth {
			l.removeFixedBill(id)
			return nil
		}
		bill.EndedAt = month
		l.rec.PutFixedBill(bill)
	default:
		return invalidField("mode", "must be THIS_MONTH_ONLY or THIS_AND_FUTURE")
	}
	return nil
}

// FixedBillsByMonth lists the bills owed in the given month. Paid status
// for the month is readable off each bill's PaidMonths.
func (l *Ledger) FixedBillsByMonth(month model.MonthKey) []*model.FixedBill {
	var out []*model.FixedBill
	for _, b := range l.fixedBills {
		if BillAppliesToMonth(b, month) {
			out = append(out, b)
		}
	}
	return out
}

// ForecastInput carries the fields to create a forecast.
type ForecastInput struct {
	Kind        model.ForecastKind
	Value       decimal.Decimal
	ExpectedDay int
	Description string
	Category    string
	IsRecurring bool
}

// AddForecast registers an expected income or expense starting in the
// given month.
func (l *Ledger) AddForecast(in ForecastInput, month model.MonthKey) (*model.Forecast, error) {
	if in.Kind != model.ExpectedIncome && in.Kind != model.ExpectedExpense {
		return nil, invalidField("kind", "must be EXPECTED_INCOME or EXPECTED_EXPENSE")
	}
	if in.Description == "" {
		return nil, invalidField("description", "is required")
	}
	day := in.ExpectedDay
	if day < 1 {
		day = 1
	}
	f := &model.Forecast{
		ID:           uuid.New().String(),
		Kind:         in.Kind,
		Value:        in.Value,
		ExpectedDate: month.DayIn(day),
		Description:  in.Description,
		Category:     in.Category,
		IsRecurring:  in.IsRecurring,
		Status:       model.ForecastPending,
		StartMonth:   month,
	}
	l.forecasts = append(l.forecasts, f)
	l.rec.PutForecast(f)
	return f, nil
}

// ForecastPatch is a partial forecast update; nil fields are left
// untouched.
type ForecastPatch struct {
	Value       *decimal.Decimal
	Description *string
	Category    *string
	IsRecurring *bool
}

// UpdateForecast applies patch to the forecast with the given id.
func (l *Ledger) UpdateForecast(id string, patch ForecastPatch) (*model.Forecast, error) {
	f := l.findForecast(id)
	if f == nil {
		return nil, ErrNotFound
	}
	if patch.Value != nil {
		f.Value = *patch.Value
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			return nil, invalidField("description", "is required")
		}
		f.Description = *patch.Description
	}
	if patch.Category != nil {
		f.Category = *patch.Category
	}
	if patch.IsRecurring != nil {
		f.IsRecurring = *patch.IsRecurring
	}
	l.rec.PutForecast(f)
	return f, nil
}

// ConfirmForecast realizes a pending forecast for one month: it inserts the
// actual transaction and marks the month skipped so the recurrence resolver
// stops reporting it as pending. Confirmation is one-way; non-recurring
// forecasts also flip to CONFIRMED.
func (l *Ledger) ConfirmForecast(id string, month model.MonthKey) (*model.Transaction, error) {
	f := l.findForecast(id)
	if f == nil {
		return nil, ErrNotFound
	}
	if !ForecastAppliesToMonth(f, month) {
		return nil, invalidField("month", "forecast is not pending for this month")
	}

	kind := model.Income
	if f.Kind == model.ExpectedExpense {
		kind = model.Expense
	}
	now := l.now()
	tx := &model.Transaction{
		ID:          uuid.New().String(),
		Kind:        kind,
		Amount:      f.Value,
		Description: f.Description,
		Category:    f.Category,
		OccurredAt:  month.DayIn(f.ExpectedDate.Day()),
		PaymentRef:  &model.PaymentRef{Kind: model.RefForecast, TargetID: id, Month: month},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	l.insertTransaction(tx)

	f.SkippedMonths = f.SkippedMonths.Add(month)
	if !f.IsRecurring {
		f.Status = model.ForecastConfirmed
	}
	l.rec.PutForecast(f)
	return tx, nil
}

// DeleteForecast removes a forecast for one month (skip) or from a month
// onward, mirroring DeleteFixedBill.
func (l *Ledger) DeleteForecast(id string, mode DeleteMode, month model.MonthKey) error {
	f := l.findForecast(id)
	if f == nil {
		return ErrNotFound
	}
	switch mode {
	case DeleteThisMonthOnly:
		f.SkippedMonths = f.SkippedMonths.Add(month)
		l.rec.PutForecast(f)
	case DeleteThisAndFuture:
		if month <= f.StartMonth {
			l.removeForecast(id)
			return nil
		}
		f.EndedAt = month
		l.rec.PutForecast(f)
	default:
		return invalidField("mode", "must be THIS_MONTH_ONLY or THIS_AND_FUTURE")
	}
	return nil
}

// ForecastsByMonth lists the forecasts still expected in the given month.
func (l *Ledger) ForecastsByMonth(month model.MonthKey) []*model.Forecast {
	var out []*model.Forecast
	for _, f := range l.forecasts {
		if ForecastAppliesToMonth(f, month) {
			out = append(out, f)
		}
	}
	return out
}

func (l *Ledger) findFixedBill(id string) *model.FixedBill {
	for _, b := range l.fixedBills {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (l *Ledger) removeFixedBill(id string) {
	for i, b := range l.fixedBills {
		if b.ID == id {
			l.fixedBills = append(l.fixedBills[:i], l.fixedBills[i+1:]...)
			l.rec.RemoveFixedBill(id)
			return
		}
	}
}

func (l *Ledger) findForecast(id string) *model.Forecast {
	for _, f := range l.forecasts {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (l *Ledger) removeForecast(id string) {
	for i, f := range l.forecasts {
		if f.ID == id {
			l.forecasts = append(l.forecasts[:i], l.forecasts[i+1:]...)
			l.rec.RemoveForecast(id)
			return
		}
	}
}

// findByPaymentRef locates the transaction settling a given target for a
// given month. Typed references replace the old description-string lookup.
func (l *Ledger) findByPaymentRef(kind model.RefKind, targetID string, month model.MonthKey) *model.Transaction {
	for _, tx := range l.transactions {
		ref := tx.PaymentRef
		if ref != nil && ref.Kind == kind && ref.TargetID == targetID && ref.Month == month {
			return tx
		}
	}
	return nil
}
