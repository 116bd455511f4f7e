package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

func TestParseAddTransaction(t *testing.T) {
	got, err := Parse(map[string]any{
		"type":        "ADD_TRANSACTION",
		"description": "mercado",
		"value":       54.3,
		"category":    "food",
		"date":        "2025-06-12",
	})
	require.NoError(t, err)
	assert.Equal(t, AddTransaction, got.Type)
	require.NotNil(t, got.Transaction)
	assert.Equal(t, model.Expense, got.Transaction.Kind)
	assert.Equal(t, "54.3", got.Transaction.Value.String())
	assert.Equal(t, 1, got.Transaction.Installments)
}

func TestParseAddTransactionStringValue(t *testing.T) {
	got, err := Parse(map[string]any{
		"type":        "ADD_TRANSACTION",
		"description": "salário",
		"kind":        "INCOME",
		"value":       "3500.00",
		"date":        "2025-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Income, got.Transaction.Kind)
	assert.True(t, got.Transaction.Value.Equal(got.Transaction.Value.Round(2)))
}

func TestParseAddCreditTransaction(t *testing.T) {
	got, err := Parse(map[string]any{
		"type":         "ADD_CREDIT_TRANSACTION",
		"description":  "notebook",
		"value":        3000.0,
		"cardName":     "Nubank",
		"installments": float64(10),
		"date":         "2025-06-20",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nubank", got.Transaction.CardName)
	assert.Equal(t, 10, got.Transaction.Installments)
}

func TestParseRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"missing description", map[string]any{"type": "ADD_TRANSACTION", "value": 1.0, "date": "2025-06-01"}, "description"},
		{"missing value", map[string]any{"type": "ADD_TRANSACTION", "description": "x", "date": "2025-06-01"}, "value"},
		{"bad value", map[string]any{"type": "ADD_TRANSACTION", "description": "x", "value": "abc", "date": "2025-06-01"}, "value"},
		{"missing date", map[string]any{"type": "ADD_TRANSACTION", "description": "x", "value": 1.0}, "date"},
		{"missing card", map[string]any{"type": "ADD_CREDIT_TRANSACTION", "description": "x", "value": 1.0, "date": "2025-06-01"}, "cardName"},
		{"missing title", map[string]any{"type": "ADD_EVENT", "date": "2025-06-01"}, "title"},
		{"missing topic", map[string]any{"type": "QUERY"}, "topic"},
		{"bad month", map[string]any{"type": "QUERY", "topic": "balance", "month": "junho"}, "month"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.payload)
			require.Error(t, err)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestParseUnknownType(t *testing.T) {
	got, err := Parse(map[string]any{"type": "MAKE_COFFEE"})
	require.NoError(t, err)
	assert.Equal(t, Unknown, got.Type)

	got, err = Parse(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, Unknown, got.Type)
}

func TestParseEventAndQuery(t *testing.T) {
	ev, err := Parse(map[string]any{"type": "ADD_EVENT", "title": "dentista", "date": "2025-07-03"})
	require.NoError(t, err)
	require.NotNil(t, ev.Event)
	assert.Equal(t, "dentista", ev.Event.Title)

	q, err := Parse(map[string]any{"type": "QUERY", "topic": "balance", "month": "2025-06"})
	require.NoError(t, err)
	require.NotNil(t, q.Query)
	assert.Equal(t, model.MonthKey("2025-06"), q.Query.Month)
}
