// Package model holds the plain domain types shared by the ledger engine,
// the persistence layer and the HTTP surface. The engine owns all mutation;
// everything else treats these values as read snapshots.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money coming in from money going out.
type TransactionKind string

const (
	Income  TransactionKind = "INCOME"
	Expense TransactionKind = "EXPENSE"
)

// ForecastKind mirrors TransactionKind for not-yet-realized entries.
type ForecastKind string

const (
	ExpectedIncome  ForecastKind = "EXPECTED_INCOME"
	ExpectedExpense ForecastKind = "EXPECTED_EXPENSE"
)

// ForecastStatus tracks whether a forecast has been realized into an
// actual transaction. Confirmation is one-way.
type ForecastStatus string

const (
	ForecastPending   ForecastStatus = "PENDING"
	ForecastConfirmed ForecastStatus = "CONFIRMED"
)

// RefKind names what a payment-reference points at.
type RefKind string

const (
	RefInvoice         RefKind = "INVOICE"
	RefInvoiceResidual RefKind = "INVOICE_RESIDUAL"
	RefFixedBill       RefKind = "FIXED_BILL"
	RefForecast        RefKind = "FORECAST"
)

// PaymentRef is a typed relation linking a transaction to the entity it
// settles (a card invoice, a fixed bill, a forecast) or, for residual
// charges, to the invoice month the shortfall rolled over from. It replaces
// description-string matching as the join key: descriptions stay
// display-only.
type PaymentRef struct {
	Kind     RefKind  `json:"kind"`
	TargetID string   `json:"targetId"`
	Month    MonthKey `json:"month"`
}

// Transaction is a single ledger entry. CardRef, when set, names the credit
// card whose invoice the entry belongs to, and BillingMonth is then always
// the billing-cycle resolver's output for OccurredAt and that card.
type Transaction struct {
	ID           string          `json:"id"`
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	OccurredAt   time.Time       `json:"occurredAt"`
	CardRef      string          `json:"cardRef,omitempty"`
	BillingMonth MonthKey        `json:"billingMonth,omitempty"`
	PaymentRef   *PaymentRef     `json:"paymentRef,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// FixedBill is a recurring monthly obligation tracked independently of
// actual transactions until toggled paid for a given month.
type FixedBill struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	BaseValue     decimal.Decimal `json:"baseValue"`
	DueDay        int             `json:"dueDay"`
	Category      string          `json:"category"`
	IsRecurring   bool            `json:"isRecurring"`
	StartMonth    MonthKey        `json:"startMonth"`
	EndedAt       MonthKey        `json:"endedAt,omitempty"`
	PaidMonths    MonthSet        `json:"paidMonths"`
	SkippedMonths MonthSet        `json:"skippedMonths"`
}

// Forecast is an expected income or expense not yet realized as a
// transaction.
type Forecast struct {
	ID            string          `json:"id"`
	Kind          ForecastKind    `json:"kind"`
	Value         decimal.Decimal `json:"value"`
	ExpectedDate  time.Time       `json:"expectedDate"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	IsRecurring   bool            `json:"isRecurring"`
	Status        ForecastStatus  `json:"status"`
	StartMonth    MonthKey        `json:"startMonth"`
	EndedAt       MonthKey        `json:"endedAt,omitempty"`
	SkippedMonths MonthSet        `json:"skippedMonths"`
}

// CreditCard carries the billing-cycle parameters for card purchases.
// BestPurchaseDay is the cutoff: purchases on or after it bill to the
// following month's invoice.
type CreditCard struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Limit           decimal.Decimal `json:"limit"`
	DueDay          int             `json:"dueDay"`
	BestPurchaseDay int             `json:"bestPurchaseDay"`
	PaidInvoices    MonthSet        `json:"paidInvoices"`
}

// BudgetLimit caps monthly spend for one category. Spent accumulates on
// every matching non-card expense and is deliberately never decremented
// when a transaction is deleted.
type BudgetLimit struct {
	ID           string          `json:"id"`
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	Spent        decimal.Decimal `json:"spent"`
}

// UserProfile carries the per-user entitlement state stored on the user's
// root document.
type UserProfile struct {
	UserID         string    `json:"userId"`
	TrialStartedAt time.Time `json:"trialStartedAt"`
	Premium        bool      `json:"premium"`
}

// Snapshot is the full ledger state for one user, as loaded from or saved
// to the persistence layer.
type Snapshot struct {
	Transactions []*Transaction `json:"transactions"`
	FixedBills   []*FixedBill   `json:"fixedBills"`
	Forecasts    []*Forecast    `json:"forecasts"`
	Cards        []*CreditCard  `json:"cards"`
	Budgets      []*BudgetLimit `json:"budgets"`
}
