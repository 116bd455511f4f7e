package service

import (
	"net/http"
	"strings"

	"github.com/thiagodbh/lyvo-ledger/internal/intent"
	"github.com/thiagodbh/lyvo-ledger/internal/ledger"
	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// intentResult is the structured acknowledgement returned to the chat
// collaborator. Applied is true only when the intent mutated the ledger.
type intentResult struct {
	Type         intent.Type          `json:"type"`
	Applied      bool                 `json:"applied"`
	Transactions []*model.Transaction `json:"transactions,omitempty"`
	Event        *intent.EventIntent  `json:"event,omitempty"`
	Query        *intent.QueryIntent  `json:"query,omitempty"`
}

// handleIntent applies a classifier payload to the caller's ledger.
// Transaction intents mutate; event and query intents are validated and
// echoed back for the collaborator that owns them.
func (s *LedgerService) handleIntent(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeBody(r, &raw); err != nil {
		s.writeError(w, err)
		return
	}
	parsed, err := intent.Parse(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}

	mutating := parsed.Type == intent.AddTransaction || parsed.Type == intent.AddCreditTransaction
	s.run(w, r, mutating, http.StatusOK, func(l *ledger.Ledger) (any, error) {
		result := &intentResult{Type: parsed.Type}
		switch parsed.Type {
		case intent.AddTransaction, intent.AddCreditTransaction:
			in := ledger.TransactionInput{
				Kind:        parsed.Transaction.Kind,
				Amount:      parsed.Transaction.Value,
				Description: parsed.Transaction.Description,
				Category:    parsed.Transaction.Category,
				OccurredAt:  parsed.Transaction.Date,
			}
			if parsed.Type == intent.AddCreditTransaction {
				card := findCardByName(l, parsed.Transaction.CardName)
				if card == nil {
					return nil, ledger.ErrInvalidCardReference
				}
				in.CardID = card.ID
			}
			txs, err := l.AddTransaction(in, parsed.Transaction.Installments)
			if err != nil {
				return nil, err
			}
			result.Applied = true
			result.Transactions = txs
		case intent.AddEvent:
			result.Event = parsed.Event
		case intent.Query:
			result.Query = parsed.Query
		}
		return result, nil
	})
}

// findCardByName matches the classifier's free-text card name against the
// user's cards, case-insensitively.
func findCardByName(l *ledger.Ledger, name string) *model.CreditCard {
	for _, card := range l.Cards() {
		if strings.EqualFold(card.Name, name) {
			return card
		}
	}
	return nil
}
