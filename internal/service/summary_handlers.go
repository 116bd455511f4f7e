package service

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// budgetProgress pairs a budget with the month's actual spend in its
// category.
type budgetProgress struct {
	*model.BudgetLimit
	SpentThisMonth decimal.Decimal `json:"spentThisMonth"`
}

// summaryView is the dashboard payload for one month.
type summaryView struct {
	Month            model.MonthKey      `json:"month"`
	Balances         ledger.Balances     `json:"balances"`
	ProjectedBalance decimal.Decimal     `json:"projectedBalance"`
	Trend            []ledger.TrendPoint `json:"trend"`
	Budgets          []*budgetProgress   `json:"budgets"`
}

func (s *LedgerService) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		spend := l.CategorySpend(month)
		budgets := []*budgetProgress{}
		for _, b := range l.BudgetLimits() {
			spent, ok := spend[b.Category]
			if !ok {
				spent = decimal.Zero
			}
			budgets = append(budgets, &budgetProgress{BudgetLimit: b, SpentThisMonth: spent})
		}
		return &summaryView{
			Month:            month,
			Balances:         l.CalculateBalances(month),
			ProjectedBalance: l.ProjectedBalance(month),
			Trend:            l.Trend(month),
			Budgets:          budgets,
		}, nil
	})
}

type setBudgetRequest struct {
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
}

func (s *LedgerService) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.run(w, r, true, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.SetBudgetLimit(ledger.BudgetInput{
			Category:     req.Category,
			MonthlyLimit: req.MonthlyLimit,
		})
	})
}

func (s *LedgerService) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, false, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		return l.BudgetLimits(), nil
	})
}

type setPremiumRequest struct {
	Premium bool `json:"premium"`
}

// handleSetPremium flips the premium flag. In production this is driven by
// the billing collaborator after checkout, not by end users.
func (s *LedgerService) handleSetPremium(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeErrorStatus(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}
	var req setPremiumRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.gate.SetPremium(r.Context(), userID, req.Premium); err != nil {
		s.writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"premium": req.Premium})
}
