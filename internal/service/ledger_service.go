// Package service exposes the ledger engine over HTTP JSON to the UI
// collaborators. Every mutating request loads the caller's snapshot,
// replays the operation through a fresh engine instance and flushes the
// recorded mutations back to the store.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/thiagodbh/lyvo-ledger/internal/entitlement"
	"github.com/thiagodbh/lyvo-ledger/internal/intent"
	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
	"github.com/thiagodbh/lyvo-ledger/internal/store"
)

// LedgerService bridges HTTP clients to per-user ledger engines.
type LedgerService struct {
	store store.Store
	gate  *entitlement.Gate
}

// NewLedgerService creates the service over the given store and gate.
func NewLedgerService(s store.Store, g *entitlement.Gate) *LedgerService {
	return &LedgerService{store: s, gate: g}
}

// Handler returns the service's route table.
func (s *LedgerService) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("PATCH /v1/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /v1/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /v1/cards", s.handleAddCard)
	mux.HandleFunc("GET /v1/cards", s.handleListCards)
	mux.HandleFunc("PATCH /v1/cards/{id}", s.handleUpdateCard)
	mux.HandleFunc("DELETE /v1/cards/{id}", s.handleDeleteCard)
	mux.HandleFunc("GET /v1/cards/{id}/invoice", s.handleGetInvoice)
	mux.HandleFunc("POST /v1/cards/{id}/invoice/pay", s.handlePayInvoice)

	mux.HandleFunc("POST /v1/fixed-bills", s.handleAddFixedBill)
	mux.HandleFunc("GET /v1/fixed-bills", s.handleListFixedBills)
	mux.HandleFunc("POST /v1/fixed-bills/{id}/toggle", s.handleToggleFixedBill)
	mux.HandleFunc("DELETE /v1/fixed-bills/{id}", s.handleDeleteFixedBill)

	mux.HandleFunc("POST /v1/forecasts", s.handleAddForecast)
	mux.HandleFunc("GET /v1/forecasts", s.handleListForecasts)
	mux.HandleFunc("PATCH /v1/forecasts/{id}", s.handleUpdateForecast)
	mux.HandleFunc("POST /v1/forecasts/{id}/confirm", s.handleConfirmForecast)
	mux.HandleFunc("DELETE /v1/forecasts/{id}", s.handleDeleteForecast)

	mux.HandleFunc("GET /v1/summary", s.handleSummary)
	mux.HandleFunc("PUT /v1/budgets", s.handleSetBudget)
	mux.HandleFunc("GET /v1/budgets", s.handleListBudgets)

	mux.HandleFunc("POST /v1/entitlement/premium", s.handleSetPremium)
	mux.HandleFunc("POST /v1/intents", s.handleIntent)

	return mux
}

// run executes fn against the caller's ledger and flushes any recorded
// mutations. Reads stay open after trial expiry; writes go through the
// entitlement gate.
func (s *LedgerService) run(w http.ResponseWriter, r *http.Request, mutating bool, status int, fn func(l *ledger.Ledger) (any, error)) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeErrorStatus(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}

	if mutating {
		if err := s.gate.Check(ctx, userID); err != nil {
			s.writeError(w, err)
			return
		}
	}

	snap, err := s.store.LoadSnapshot(ctx, userID)
	if err != nil {
		s.writeError(w, fmt.Errorf("load snapshot: %w", err))
		return
	}

	journal := store.NewJournal()
	l := ledger.New(snap, journal)

	out, err := fn(l)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if mutating {
		if err := journal.Flush(ctx, s.store, userID); err != nil {
			s.writeError(w, err)
			return
		}
	}

	respondJSON(w, status, out)
}

func respondJSON(w http.ResponseWriter, status int, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if out == nil {
		out = map[string]bool{"ok": true}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("[Service] failed to encode response: %v", err)
	}
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeError maps engine and gate errors onto HTTP statuses.
func (s *LedgerService) writeError(w http.ResponseWriter, err error) {
	var ve *ledger.ValidationError
	var fe *intent.FieldError
	switch {
	case errors.As(err, &ve), errors.As(err, &fe):
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInvalidCardReference):
		writeErrorStatus(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeErrorStatus(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entitlement.ErrTrialExpired):
		writeErrorStatus(w, http.StatusPaymentRequired, err.Error())
	default:
		log.Printf("[Service] internal error: %v", err)
		writeErrorStatus(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return &ledger.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}

// monthFromQuery reads the wire contract's month/year pair (month is
// zero-based) from query parameters.
func monthFromQuery(r *http.Request) (model.MonthKey, error) {
	return monthFromParts(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
}

func monthFromParts(monthStr, yearStr string) (model.MonthKey, error) {
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return "", &ledger.ValidationError{Field: "month", Reason: "must be an integer (0-11)"}
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", &ledger.ValidationError{Field: "year", Reason: "must be an integer"}
	}
	key, err := model.MonthFromParts(year, month)
	if err != nil {
		return "", &ledger.ValidationError{Field: "month", Reason: err.Error()}
	}
	return key, nil
}

// monthYear is the embedded month/year pair used by mutation payloads.
type monthYear struct {
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

func (my monthYear) key() (model.MonthKey, error) {
	if my.Month == nil || my.Year == nil {
		return "", &ledger.ValidationError{Field: "month", Reason: "month and year are required"}
	}
	key, err := model.MonthFromParts(*my.Year, *my.Month)
	if err != nil {
		return "", &ledger.ValidationError{Field: "month", Reason: err.Error()}
	}
	return key, nil
}
