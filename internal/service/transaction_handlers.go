package service

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

type addTransactionRequest struct {
	Kind         model.TransactionKind `json:"kind"`
	Amount       decimal.Decimal       `json:"amount"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	Date         string                `json:"date"`
	CardID       string                `json:"cardId"`
	Installments int                   `json:"installments"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &ledger.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return t, nil
}

func (s *LedgerService) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Installments == 0 {
		req.Installments = 1
	}

	s.run(w, r, true, http.StatusCreated, func(l *ledger.Ledger) (any, error) {
		return l.AddTransaction(ledger.TransactionInput{
			Kind:        req.Kind,
			Amount:      req.Amount,
			Description: req.Description,
			Category:    req.Category,
			OccurredAt:  date,
			CardID:      req.CardID,
		}, req.Installments)
	})
}

type updateTransactionRequest struct {
	Kind        *model.TransactionKind `json:"kind"`
	Amount      *decimal.Decimal       `json:"amount"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	Date        *string                `json:"date"`
	CardID      *string                `json:"cardId"`
}

func (s *LedgerService) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	patch := ledger.TransactionPatch{
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		CardID:      req.CardID,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			s.writeError(w, err)
			return
		}
		patch.OccurredAt = &date
	}

	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.UpdateTransaction(id, patch)
	})
}

func (s *LedgerService) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return nil, l.DeleteTransaction(id)
	})
}

func (s *LedgerService) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		txs := l.TransactionsByMonth(month)
		if txs == nil {
			txs = []*model.Transaction{}
		}
		return txs, nil
	})
}
