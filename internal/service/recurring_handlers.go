package service

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

func deleteModeFromQuery(r *http.Request) ledger.DeleteMode {
	return ledger.DeleteMode(r.URL.Query().Get("mode"))
}

type addFixedBillRequest struct {
	monthYear
	Name        string          `json:"name"`
	BaseValue   decimal.Decimal `json:"baseValue"`
	DueDay      int             `json:"dueDay"`
	Category    string          `json:"category"`
	IsRecurring bool            `json:"isRecurring"`
}

func (s *LedgerService) handleAddFixedBill(w http.ResponseWriter, r *http.Request) {
	var req addFixedBillRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	month, err := req.key()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusCreated, func(l *ledger.Ledger) (any, error) {
		return l.AddFixedBill(ledger.FixedBillInput{
			Name:        req.Name,
			BaseValue:   req.BaseValue,
			DueDay:      req.DueDay,
			Category:    req.Category,
			IsRecurring: req.IsRecurring,
		}, month)
	})
}

// fixedBillView decorates a bill with its paid flag for the listed month.
type fixedBillView struct {
	*model.FixedBill
	Paid bool `json:"paid"`
}

func (s *LedgerService) handleListFixedBills(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		views := []*fixedBillView{}
		for _, b := range l.FixedBillsByMonth(month) {
			views = append(views, &fixedBillView{
				FixedBill: b,
				Paid:      b.PaidMonths.Contains(month),
			})
		}
		return views, nil
	})
}

func (s *LedgerService) handleToggleFixedBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req monthYear
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
		bill, err := l.ToggleFixedBillStatus(id, month)
		if err != nil {
			return nil, err
		}
		return &fixedBillView{FixedBill: bill, Paid: bill.PaidMonths.Contains(month)}, nil
	})
}

func (s *LedgerService) handleDeleteFixedBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	mode := deleteModeFromQuery(r)
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return nil, l.DeleteFixedBill(id, mode, month)
	})
}

type addForecastRequest struct {
	monthYear
	Kind        model.ForecastKind `json:"kind"`
	Value       decimal.Decimal    `json:"value"`
	ExpectedDay int                `json:"expectedDay"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	IsRecurring bool               `json:"isRecurring"`
}

func (s *LedgerService) handleAddForecast(w http.ResponseWriter, r *http.Request) {
	var req addForecastRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	month, err := req.key()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusCreated, func(l *ledger.Ledger) (any, error) {
		return l.AddForecast(ledger.ForecastInput{
			Kind:        req.Kind,
			Value:       req.Value,
			ExpectedDay: req.ExpectedDay,
			Description: req.Description,
			Category:    req.Category,
			IsRecurring: req.IsRecurring,
		}, month)
	})
}

type updateForecastRequest struct {
	Value       *decimal.Decimal `json:"value"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	IsRecurring *bool            `json:"isRecurring"`
}

func (s *LedgerService) handleUpdateForecast(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateForecastRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.UpdateForecast(id, ledger.ForecastPatch{
			Value:       req.Value,
			Description: req.Description,
			Category:    req.Category,
			IsRecurring: req.IsRecurring,
		})
	})
}

func (s *LedgerService) handleConfirmForecast(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req monthYear
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	month, err := req.key()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusCreated, func(l *ledger.Ledger) (any, error) {
		return l.ConfirmForecast(id, month)
	})
}

func (s *LedgerService) handleDeleteForecast(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	mode := deleteModeFromQuery(r)
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return nil, l.DeleteForecast(id, mode, month)
	})
}

func (s *LedgerService) handleListForecasts(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		fs := l.ForecastsByMonth(month)
		if fs == nil {
			fs = []*model.Forecast{}
		}
		return fs, nil
	})
}
