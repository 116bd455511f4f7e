package service

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

type cardRequest struct {
	Name            *string          `json:"name"`
	Limit           *decimal.Decimal `json:"limit"`
	DueDay          *int             `json:"dueDay"`
	BestPurchaseDay *int             `json:"bestPurchaseDay"`
}

func (s *LedgerService) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in := ledger.CardInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Limit != nil {
		in.Limit = *req.Limit
	}
	if req.DueDay != nil {
		in.DueDay = *req.DueDay
	}
	if req.BestPurchaseDay != nil {
		in.BestPurchaseDay = *req.BestPurchaseDay
	}
	s.run(w, r, true, http.StatusCreated, func(l *ledger.Ledger) (any, error) {
		return l.AddCreditCard(in)
	})
}

func (s *LedgerService) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req cardRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.UpdateCreditCard(id, ledger.CardPatch{
			Name:            req.Name,
			Limit:           req.Limit,
			DueDay:          req.DueDay,
			BestPurchaseDay: req.BestPurchaseDay,
		})
	})
}

func (s *LedgerService) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return nil, l.DeleteCreditCard(id)
	})
}

func (s *LedgerService) handleListCards(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.Cards(), nil
	})
}

// invoiceView is the invoice panel for one card and month.
type invoiceView struct {
	CardID       string               `json:"cardId"`
	Month        model.MonthKey       `json:"month"`
	AmountDue    decimal.Decimal      `json:"amountDue"`
	AmountPaid   decimal.Decimal      `json:"amountPaid"`
	Paid         bool                 `json:"paid"`
	Transactions []*model.Transaction `json:"transactions"`
}

func (s *LedgerService) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		due, err := l.CalculateCardInvoice(id, month)
		if err != nil {
			return nil, err
		}
		paid, err := l.CalculateTotalPaid(id, month)
		if err != nil {
			return nil, err
		}
		isPaid, err := l.IsInvoicePaid(id, month)
		if err != nil {
			return nil, err
		}
		txs := l.InvoiceTransactions(id, month)
		if txs == nil {
			txs = []*model.Transaction{}
		}
		return &invoiceView{
			CardID:       id,
			Month:        month,
			AmountDue:    due,
			AmountPaid:   paid,
			Paid:         isPaid,
			Transactions: txs,
		}, nil
	})
}

type payInvoiceRequest struct {
	monthYear
	Amount decimal.Decimal `json:"amount"`
}

func (s *LedgerService) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req payInvoiceRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	month, err := req.key()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		if err := l.PayInvoice(id, month, req.Amount); err != nil {
			return nil, err
		}
		isPaid, err := l.IsInvoicePaid(id, month)
		if err != nil {
			return nil, err
		}
		return map[string]bool{"paid": isPaid}, nil
	})
}
