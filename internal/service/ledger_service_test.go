package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagodbh/lyvo-ledger/internal/entitlement"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
	"github.com/thiagodbh/lyvo-ledger/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewLedgerService(mem, entitlement.NewGate(mem, 14))
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return srv, mem
}

// doJSON issues a request as the given user and decodes the JSON response
// into out when out is non-nil.
func doJSON(t *testing.T, srv *httptest.Server, method, path, userID string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestMissingUserHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/v1/transactions?month=5&year=2025", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	user := "user-123"

	var created []*model.Transaction
	resp := doJSON(t, srv, http.MethodPost, "/v1/transactions", user, map[string]any{
		"kind":        "INCOME",
		"amount":      "1000",
		"description": "Salário",
		"category":    "salario",
		"date":        "2025-06-05",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)

	resp = doJSON(t, srv, http.MethodPost, "/v1/transactions", user, map[string]any{
		"kind":        "EXPENSE",
		"amount":      "200",
		"description": "Mercado",
		"category":    "mercado",
		"date":        "2025-06-10",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var listed []*model.Transaction
	resp = doJSON(t, srv, http.MethodGet, "/v1/transactions?month=5&year=2025", user, nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listed, 2)

	var summary struct {
		Balances struct {
			Income  decimal.Decimal `json:"income"`
			Expense decimal.Decimal `json:"expense"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"balances"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/v1/summary?month=5&year=2025", user, nil, &summary)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, summary.Balances.Income.Equal(decimal.RequireFromString("1000")))
	assert.True(t, summary.Balances.Expense.Equal(decimal.RequireFromString("200")))
	assert.True(t, summary.Balances.Balance.Equal(decimal.RequireFromString("800")))

	// Other users never see this data.
	var other []*model.Transaction
	resp = doJSON(t, srv, http.MethodGet, "/v1/transactions?month=5&year=2025", "user-456", nil, &other)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, other)
}

func TestInstallmentsRequireCard(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/v1/transactions", "user-123", map[string]any{
		"kind":         "EXPENSE",
		"amount":       "300",
		"description":  "Tênis",
		"date":         "2025-06-10",
		"installments": 3,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownCardReference(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/v1/transactions", "user-123", map[string]any{
		"kind":        "EXPENSE",
		"amount":      "50",
		"description": "Jantar",
		"date":        "2025-06-10",
		"cardId":      "no-such-card",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvoiceFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	user := "user-123"

	var card model.CreditCard
	resp := doJSON(t, srv, http.MethodPost, "/v1/cards", user, map[string]any{
		"name":            "Nubank",
		"limit":           "5000",
		"dueDay":          10,
		"bestPurchaseDay": 20,
	}, &card)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, card.ID)

	// Day 10 is before the cutoff, so the charge lands on June's invoice.
	resp = doJSON(t, srv, http.MethodPost, "/v1/transactions", user, map[string]any{
		"kind":        "EXPENSE",
		"amount":      "500",
		"description": "Passagem",
		"date":        "2025-06-10",
		"cardId":      card.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var invoice struct {
		AmountDue    decimal.Decimal      `json:"amountDue"`
		AmountPaid   decimal.Decimal      `json:"amountPaid"`
		Paid         bool                 `json:"paid"`
		Transactions []*model.Transaction `json:"transactions"`
	}
	invoicePath := fmt.Sprintf("/v1/cards/%s/invoice?month=5&year=2025", card.ID)
	resp = doJSON(t, srv, http.MethodGet, invoicePath, user, nil, &invoice)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, invoice.AmountDue.Equal(decimal.RequireFromString("500")))
	assert.False(t, invoice.Paid)
	assert.Len(t, invoice.Transactions, 1)

	var payResult map[string]bool
	payPath := fmt.Sprintf("/v1/cards/%s/invoice/pay", card.ID)
	resp = doJSON(t, srv, http.MethodPost, payPath, user, map[string]any{
		"month": 5, "year": 2025, "amount": "300",
	}, &payResult)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, payResult["paid"])

	resp = doJSON(t, srv, http.MethodPost, payPath, user, map[string]any{
		"month": 5, "year": 2025, "amount": "200",
	}, &payResult)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, payResult["paid"])
}

func TestTrialGate(t *testing.T) {
	srv, mem := newTestServer(t)
	user := "expired-user"

	err := mem.PutUserProfile(context.Background(), user, &model.UserProfile{
		UserID:         user,
		TrialStartedAt: time.Now().AddDate(0, 0, -20),
	})
	require.NoError(t, err)

	resp := doJSON(t, srv, http.MethodPost, "/v1/transactions", user, map[string]any{
		"kind":        "EXPENSE",
		"amount":      "10",
		"description": "Café",
		"date":        "2025-06-10",
	}, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	// Reads stay open after expiry.
	resp = doJSON(t, srv, http.MethodGet, "/v1/transactions?month=5&year=2025", user, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Premium reopens writes.
	resp = doJSON(t, srv, http.MethodPost, "/v1/entitlement/premium", user, map[string]any{
		"premium": true,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/v1/transactions", user, map[string]any{
		"kind":        "EXPENSE",
		"amount":      "10",
		"description": "Café",
		"date":        "2025-06-10",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestFixedBillToggleFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	user := "user-123"

	var bill model.FixedBill
	resp := doJSON(t, srv, http.MethodPost, "/v1/fixed-bills", user, map[string]any{
		"month":     5,
		"year":      2025,
		"name":      "Aluguel",
		"baseValue": "1500",
		"dueDay":      5,
		"category":    "moradia",
		"isRecurring": true,
	}, &bill)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, bill.ID)

	togglePath := fmt.Sprintf("/v1/fixed-bills/%s/toggle", bill.ID)
	resp = doJSON(t, srv, http.MethodPost, togglePath, user, map[string]any{
		"month": 5, "year": 2025,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []struct {
		model.FixedBill
		Paid bool `json:"paid"`
	}
	resp = doJSON(t, srv, http.MethodGet, "/v1/fixed-bills?month=5&year=2025", user, nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Paid)

	// Paying the bill materialized an expense in the month.
	var txs []*model.Transaction
	resp = doJSON(t, srv, http.MethodGet, "/v1/transactions?month=5&year=2025", user, nil, &txs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, txs, 1)
	assert.Equal(t, "Aluguel", txs[0].Description)
}

func TestIntentEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	user := "user-123"

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantType   string
		applied    bool
	}{
		{
			name: "add transaction intent",
			payload: map[string]any{
				"type":        "ADD_TRANSACTION",
				"kind":        "EXPENSE",
				"value":       42.5,
				"description": "Uber",
				"date":        "2025-06-12",
			},
			wantStatus: http.StatusOK,
			wantType:   "ADD_TRANSACTION",
			applied:    true,
		},
		{
			name: "credit intent with unknown card",
			payload: map[string]any{
				"type":        "ADD_CREDIT_TRANSACTION",
				"value":       100,
				"description": "Livros",
				"date":        "2025-06-12",
				"cardName":    "Inexistente",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing required field",
			payload:    map[string]any{"type": "ADD_TRANSACTION", "value": 10},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown tag acknowledged",
			payload:    map[string]any{"type": "SOMETHING_ELSE"},
			wantStatus: http.StatusOK,
			wantType:   "UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result struct {
				Type    string `json:"type"`
				Applied bool   `json:"applied"`
			}
			var out any
			if tt.wantStatus == http.StatusOK {
				out = &result
			}
			resp := doJSON(t, srv, http.MethodPost, "/v1/intents", user, tt.payload, out)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantType, result.Type)
				assert.Equal(t, tt.applied, result.Applied)
			}
		})
	}
}
