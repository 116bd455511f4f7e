package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// Firestore document shapes. Amounts are stored as decimal strings so no
// precision is lost in transit, and field names stay camelCase to match
// the documents written by the original web client.

type transactionDoc struct {
	ID           string    `firestore:"id"`
	Kind         string    `firestore:"kind"`
	Amount       string    `firestore:"amount"`
	Description  string    `firestore:"description"`
	Category     string    `firestore:"category"`
	OccurredAt   time.Time `firestore:"occurredAt"`
	CardRef      string    `firestore:"cardRef"`
	BillingMonth string    `firestore:"billingMonth"`
	RefKind      string    `firestore:"refKind"`
	RefTargetID  string    `firestore:"refTargetId"`
	RefMonth     string    `firestore:"refMonth"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

type fixedBillDoc struct {
	ID            string   `firestore:"id"`
	Name          string   `firestore:"name"`
	BaseValue     string   `firestore:"baseValue"`
	DueDay        int      `firestore:"dueDay"`
	Category      string   `firestore:"category"`
	IsRecurring   bool     `firestore:"isRecurring"`
	StartMonth    string   `firestore:"startMonth"`
	EndedAt       string   `firestore:"endedAt"`
	PaidMonths    []string `firestore:"paidMonths"`
	SkippedMonths []string `firestore:"skippedMonths"`
}

type forecastDoc struct {
	ID            string    `firestore:"id"`
	Kind          string    `firestore:"kind"`
	Value         string    `firestore:"value"`
	ExpectedDate  time.Time `firestore:"expectedDate"`
	Description   string    `firestore:"description"`
	Category      string    `firestore:"category"`
	IsRecurring   bool      `firestore:"isRecurring"`
	Status        string    `firestore:"status"`
	StartMonth    string    `firestore:"startMonth"`
	EndedAt       string    `firestore:"endedAt"`
	SkippedMonths []string  `firestore:"skippedMonths"`
}

type cardDoc struct {
	ID              string   `firestore:"id"`
	Name            string   `firestore:"name"`
	Limit           string   `firestore:"limit"`
	DueDay          int      `firestore:"dueDay"`
	BestPurchaseDay int      `firestore:"bestPurchaseDay"`
	PaidInvoices    []string `firestore:"paidInvoices"`
}

type budgetDoc struct {
	ID           string `firestore:"id"`
	Category     string `firestore:"category"`
	MonthlyLimit string `firestore:"monthlyLimit"`
	Spent        string `firestore:"spent"`
}

type profileDoc struct {
	UserID         string    `firestore:"userId"`
	TrialStartedAt time.Time `firestore:"trialStartedAt"`
	Premium        bool      `firestore:"premium"`
}

func monthsToStrings(s model.MonthSet) []string {
	out := make([]string, 0, len(s))
	for _, m := range s {
		out = append(out, string(m))
	}
	return out
}

func stringsToMonths(s []string) model.MonthSet {
	out := make(model.MonthSet, 0, len(s))
	for _, m := range s {
		out = append(out, model.MonthKey(m))
	}
	return out
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func encodeTransaction(tx *model.Transaction) *transactionDoc {
	doc := &transactionDoc{
		ID:           tx.ID,
		Kind:         string(tx.Kind),
		Amount:       tx.Amount.String(),
		Description:  tx.Description,
		Category:     tx.Category,
		OccurredAt:   tx.OccurredAt,
		CardRef:      tx.CardRef,
		BillingMonth: string(tx.BillingMonth),
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
	if tx.PaymentRef != nil {
		doc.RefKind = string(tx.PaymentRef.Kind)
		doc.RefTargetID = tx.PaymentRef.TargetID
		doc.RefMonth = string(tx.PaymentRef.Month)
	}
	return doc
}

func decodeTransaction(doc *transactionDoc) (*model.Transaction, error) {
	amount, err := parseAmount("amount", doc.Amount)
	if err != nil {
		return nil, err
	}
	tx := &model.Transaction{
		ID:           doc.ID,
		Kind:         model.TransactionKind(doc.Kind),
		Amount:       amount,
		Description:  doc.Description,
		Category:     doc.Category,
		OccurredAt:   doc.OccurredAt,
		CardRef:      doc.CardRef,
		BillingMonth: model.MonthKey(doc.BillingMonth),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if doc.RefKind != "" {
		tx.PaymentRef = &model.PaymentRef{
			Kind:     model.RefKind(doc.RefKind),
			TargetID: doc.RefTargetID,
			Month:    model.MonthKey(doc.RefMonth),
		}
	}
	return tx, nil
}

func encodeFixedBill(b *model.FixedBill) *fixedBillDoc {
	return &fixedBillDoc{
		ID:            b.ID,
		Name:          b.Name,
		BaseValue:     b.BaseValue.String(),
		DueDay:        b.DueDay,
		Category:      b.Category,
		IsRecurring:   b.IsRecurring,
		StartMonth:    string(b.StartMonth),
		EndedAt:       string(b.EndedAt),
		PaidMonths:    monthsToStrings(b.PaidMonths),
		SkippedMonths: monthsToStrings(b.SkippedMonths),
	}
}

func decodeFixedBill(doc *fixedBillDoc) (*model.FixedBill, error) {
	base, err := parseAmount("baseValue", doc.BaseValue)
	if err != nil {
		return nil, err
	}
	return &model.FixedBill{
		ID:            doc.ID,
		Name:          doc.Name,
		BaseValue:     base,
		DueDay:        doc.DueDay,
		Category:      doc.Category,
		IsRecurring:   doc.IsRecurring,
		StartMonth:    model.MonthKey(doc.StartMonth),
		EndedAt:       model.MonthKey(doc.EndedAt),
		PaidMonths:    stringsToMonths(doc.PaidMonths),
		SkippedMonths: stringsToMonths(doc.SkippedMonths),
	}, nil
}

func encodeForecast(f *model.Forecast) *forecastDoc {
	return &forecastDoc{
		ID:            f.ID,
		Kind:          string(f.Kind),
		Value:         f.Value.String(),
		ExpectedDate:  f.ExpectedDate,
		Description:   f.Description,
		Category:      f.Category,
		IsRecurring:   f.IsRecurring,
		Status:        string(f.Status),
		StartMonth:    string(f.StartMonth),
		EndedAt:       string(f.EndedAt),
		SkippedMonths: monthsToStrings(f.SkippedMonths),
	}
}

func decodeForecast(doc *forecastDoc) (*model.Forecast, error) {
	value, err := parseAmount("value", doc.Value)
	if err != nil {
		return nil, err
	}
	return &model.Forecast{
		ID:            doc.ID,
		Kind:          model.ForecastKind(doc.Kind),
		Value:         value,
		ExpectedDate:  doc.ExpectedDate,
		Description:   doc.Description,
		Category:      doc.Category,
		IsRecurring:   doc.IsRecurring,
		Status:        model.ForecastStatus(doc.Status),
		StartMonth:    model.MonthKey(doc.StartMonth),
		EndedAt:       model.MonthKey(doc.EndedAt),
		SkippedMonths: stringsToMonths(doc.SkippedMonths),
	}, nil
}

func encodeCard(c *model.CreditCard) *cardDoc {
	return &cardDoc{
		ID:              c.ID,
		Name:            c.Name,
		Limit:           c.Limit.String(),
		DueDay:          c.DueDay,
		BestPurchaseDay: c.BestPurchaseDay,
		PaidInvoices:    monthsToStrings(c.PaidInvoices),
	}
}

func decodeCard(doc *cardDoc) (*model.CreditCard, error) {
	limit, err := parseAmount("limit", doc.Limit)
	if err != nil {
		return nil, err
	}
	return &model.CreditCard{
		ID:              doc.ID,
		Name:            doc.Name,
		Limit:           limit,
		DueDay:          doc.DueDay,
		BestPurchaseDay: doc.BestPurchaseDay,
		PaidInvoices:    stringsToMonths(doc.PaidInvoices),
	}, nil
}

func encodeBudget(b *model.BudgetLimit) *budgetDoc {
	return &budgetDoc{
		ID:           b.ID,
		Category:     b.Category,
		MonthlyLimit: b.MonthlyLimit.String(),
		Spent:        b.Spent.String(),
	}
}

func decodeBudget(doc *budgetDoc) (*model.BudgetLimit, error) {
	limit, err := parseAmount("monthlyLimit", doc.MonthlyLimit)
	if err != nil {
		return nil, err
	}
	spent, err := parseAmount("spent", doc.Spent)
	if err != nil {
		return nil, err
	}
	return &model.BudgetLimit{
		ID:           doc.ID,
		Category:     doc.Category,
		MonthlyLimit: limit,
		Spent:        spent,
	}, nil
}
