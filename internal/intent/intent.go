// Package intent validates the loosely structured payloads produced by the
// external natural-language classifier before they reach the ledger engine.
// The classifier is an opaque collaborator; everything it emits is treated
// as untrusted and coerced into one of a fixed set of typed variants here.
package intent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// Type tags the intent variant.
type Type string

const (
	AddTransaction       Type = "ADD_TRANSACTION"
	AddCreditTransaction Type = "ADD_CREDIT_TRANSACTION"
	AddEvent             Type = "ADD_EVENT"
	Query                Type = "QUERY"
	Unknown              Type = "UNKNOWN"
)

// FieldError reports a missing or uncoercible field in a classifier
// payload.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("intent field %s: %s", e.Field, e.Reason)
}

// TransactionIntent is the validated form of ADD_TRANSACTION and
// ADD_CREDIT_TRANSACTION payloads.
type TransactionIntent struct {
	Kind         model.TransactionKind
	Value        decimal.Decimal
	Description  string
	Category     string
	Date         time.Time
	CardName     string // ADD_CREDIT_TRANSACTION only
	Installments int    // ADD_CREDIT_TRANSACTION only, defaults to 1
}

// EventIntent is the validated form of ADD_EVENT payloads. Events are
// handed off to the calendar collaborator, never to the ledger.
type EventIntent struct {
	Title string
	Date  time.Time
}

// QueryIntent is the validated form of QUERY payloads.
type QueryIntent struct {
	Topic string
	Month model.MonthKey
}

// Intent is the tagged union. Exactly the variant named by Type is
// non-nil; UNKNOWN carries nothing.
type Intent struct {
	Type        Type
	Transaction *TransactionIntent
	Event       *EventIntent
	Query       *QueryIntent
}

// Parse validates a raw classifier payload into a typed Intent. An
// unrecognized type tag yields an UNKNOWN intent, not an error; a known
// tag with missing or malformed required fields yields a FieldError.
func Parse(raw map[string]any) (*Intent, error) {
	tag, _ := raw["type"].(string)
	switch Type(tag) {
	case AddTransaction, AddCreditTransaction:
		tx, err := parseTransaction(raw, Type(tag) == AddCreditTransaction)
		if err != nil {
			return nil, err
		}
		return &Intent{Type: Type(tag), Transaction: tx}, nil
	case AddEvent:
		ev, err := parseEvent(raw)
		if err != nil {
			return nil, err
		}
		return &Intent{Type: AddEvent, Event: ev}, nil
	case Query:
		q, err := parseQuery(raw)
		if err != nil {
			return nil, err
		}
		return &Intent{Type: Query, Query: q}, nil
	default:
		return &Intent{Type: Unknown}, nil
	}
}

func parseTransaction(raw map[string]any, credit bool) (*TransactionIntent, error) {
	description, _ := raw["description"].(string)
	if description == "" {
		return nil, &FieldError{Field: "description", Reason: "is required"}
	}

	value, err := coerceDecimal(raw["value"])
	if err != nil {
		return nil, &FieldError{Field: "value", Reason: err.Error()}
	}

	kind := model.Expense
	if k, _ := raw["kind"].(string); k == string(model.Income) {
		kind = model.Income
	}

	date, err := coerceDate(raw["date"])
	if err != nil {
		return nil, &FieldError{Field: "date", Reason: err.Error()}
	}

	tx := &TransactionIntent{
		Kind:         kind,
		Value:        value,
		Description:  description,
		Date:         date,
		Installments: 1,
	}
	if c, ok := raw["category"].(string); ok {
		tx.Category = c
	}

	if credit {
		cardName, _ := raw["cardName"].(string)
		if cardName == "" {
			return nil, &FieldError{Field: "cardName", Reason: "is required"}
		}
		tx.CardName = cardName
		if n, ok := coerceInt(raw["installments"]); ok {
			if n < 1 {
				return nil, &FieldError{Field: "installments", Reason: "must be at least 1"}
			}
			tx.Installments = n
		}
	}
	return tx, nil
}

func parseEvent(raw map[string]any) (*EventIntent, error) {
	title, _ := raw["title"].(string)
	if title == "" {
		return nil, &FieldError{Field: "title", Reason: "is required"}
	}
	date, err := coerceDate(raw["date"])
	if err != nil {
		return nil, &FieldError{Field: "date", Reason: err.Error()}
	}
	return &EventIntent{Title: title, Date: date}, nil
}

func parseQuery(raw map[string]any) (*QueryIntent, error) {
	topic, _ := raw["topic"].(string)
	if topic == "" {
		return nil, &FieldError{Field: "topic", Reason: "is required"}
	}
	q := &QueryIntent{Topic: topic}
	if m, ok := raw["month"].(string); ok {
		key := model.MonthKey(m)
		if !key.Valid() {
			return nil, &FieldError{Field: "month", Reason: "must be YYYY-MM"}
		}
		q.Month = key
	}
	return q, nil
}

// coerceDecimal accepts the value shapes the classifier is known to emit:
// JSON numbers, numeric strings and json.Number.
func coerceDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number: %q", n)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number: %q", n)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("is required")
	default:
		return decimal.Zero, fmt.Errorf("not a number")
	}
}

func coerceDate(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("is required")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
