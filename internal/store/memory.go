package store

import (
	"context"
	"sync"

	"github.com/thiagodbh/lyvo-ledger/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for local
// development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]map[string]*model.Transaction
	fixedBills   map[string]map[string]*model.FixedBill
	forecasts    map[string]map[string]*model.Forecast
	cards        map[string]map[string]*model.CreditCard
	budgets      map[string]map[string]*model.BudgetLimit
	profiles     map[string]*model.UserProfile

	order map[string][]string // userID -> transaction ids in insertion order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]map[string]*model.Transaction),
		fixedBills:   make(map[string]map[string]*model.FixedBill),
		forecasts:    make(map[string]map[string]*model.Forecast),
		cards:        make(map[string]map[string]*model.CreditCard),
		budgets:      make(map[string]map[string]*model.BudgetLimit),
		profiles:     make(map[string]*model.UserProfile),
		order:        make(map[string][]string),
	}
}

func (m *MemoryStore) LoadSnapshot(_ context.Context, userID string) (*model.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &model.Snapshot{}
	// Transactions come back in insertion order so running-balance math is
	// stable across reloads.
	for _, id := range m.order[userID] {
		if tx, ok := m.transactions[userID][id]; ok {
			snap.Transactions = append(snap.Transactions, tx.Clone())
		}
	}
	for _, b := range m.fixedBills[userID] {
		snap.FixedBills = append(snap.FixedBills, b.Clone())
	}
	for _, f := range m.forecasts[userID] {
		snap.Forecasts = append(snap.Forecasts, f.Clone())
	}
	for _, c := range m.cards[userID] {
		snap.Cards = append(snap.Cards, c.Clone())
	}
	for _, b := range m.budgets[userID] {
		snap.Budgets = append(snap.Budgets, b.Clone())
	}
	return snap, nil
}

func (m *MemoryStore) PutTransaction(_ context.Context, userID string, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transactions[userID] == nil {
		m.transactions[userID] = make(map[string]*model.Transaction)
	}
	if _, exists := m.transactions[userID][tx.ID]; !exists {
		m.order[userID] = append(m.order[userID], tx.ID)
	}
	m.transactions[userID][tx.ID] = tx.Clone()
	return nil
}

func (m *MemoryStore) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions[userID], id)
	for i, txID := range m.order[userID] {
		if txID == id {
			m.order[userID] = append(m.order[userID][:i], m.order[userID][i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) PutFixedBill(_ context.Context, userID string, b *model.FixedBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fixedBills[userID] == nil {
		m.fixedBills[userID] = make(map[string]*model.FixedBill)
	}
	m.fixedBills[userID][b.ID] = b.Clone()
	return nil
}

func (m *MemoryStore) DeleteFixedBill(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.fixedBills[userID], id)
	return nil
}

func (m *MemoryStore) PutForecast(_ context.Context, userID string, f *model.Forecast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.forecasts[userID] == nil {
		m.forecasts[userID] = make(map[string]*model.Forecast)
	}
	m.forecasts[userID][f.ID] = f.Clone()
	return nil
}

func (m *MemoryStore) DeleteForecast(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.forecasts[userID], id)
	return nil
}

func (m *MemoryStore) PutCard(_ context.Context, userID string, c *model.CreditCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cards[userID] == nil {
		m.cards[userID] = make(map[string]*model.CreditCard)
	}
	m.cards[userID][c.ID] = c.Clone()
	return nil
}

func (m *MemoryStore) DeleteCard(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards[userID], id)
	return nil
}

func (m *MemoryStore) PutBudget(_ context.Context, userID string, b *model.BudgetLimit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.budgets[userID] == nil {
		m.budgets[userID] = make(map[string]*model.BudgetLimit)
	}
	m.budgets[userID][b.ID] = b.Clone()
	return nil
}

func (m *MemoryStore) GetUserProfile(_ context.Context, userID string) (*model.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := *p
	return &out, nil
}

func (m *MemoryStore) PutUserProfile(_ context.Context, userID string, p *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *p
	m.profiles[userID] = &out
	return nil
}
