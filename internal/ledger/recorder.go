package ledger

import "github.com/thiagodbh/lyvo-ledger/internal/model"

// Recorder observes every mutation the engine applies to its in-memory
// collections. A host attaches one to get write-through persistence without
// the engine ever touching I/O itself: the engine stays synchronous and the
// recorder decides how (and whether) to persist.
type Recorder interface {
	PutTransaction(tx *model.Transaction)
	RemoveTransaction(id string)
	PutFixedBill(b *model.FixedBill)
	RemoveFixedBill(id string)
	PutForecast(f *model.Forecast)
	RemoveForecast(id string)
	PutCard(c *model.CreditCard)
	RemoveCard(id string)
	PutBudget(b *model.BudgetLimit)
}

// NoopRecorder discards all mutation events. Used when the caller only
// wants the in-memory engine, e.g. in tests.
type NoopRecorder struct{}

func (NoopRecorder) PutTransaction(*model.Transaction) {}
func (NoopRecorder) RemoveTransaction(string)          {}
func (NoopRecorder) PutFixedBill(*model.FixedBill)     {}
func (NoopRecorder) RemoveFixedBill(string)            {}
func (NoopRecorder) PutForecast(*model.Forecast)       {}
func (NoopRecorder) RemoveForecast(string)             {}
func (NoopRecorder) PutCard(*model.CreditCard)         {}
func (NoopRecorder) RemoveCard(string)                 {}
func (NoopRecorder) PutBudget(*model.BudgetLimit)      {}
