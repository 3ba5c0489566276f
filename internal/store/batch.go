package store

import (
	"errors"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

var errBatchDone = errors.New("batch already committed")

// Batch is a staged write against the store. All operations work on a private
// copy of the state; nothing is visible to readers until Commit. Abandoning a
// batch discards it, which is how bulk loads roll back.
type Batch struct {
	store  *Store
	staged *state
	done   bool
}

// Begin starts a staged batch from a snapshot of the current state.
func (s *Store) Begin() *Batch {
	s.mu.RLock()
	staged := s.state.clone()
	s.mu.RUnlock()
	return &Batch{store: s, staged: staged}
}

// Clear drops every transaction, cost center and spend category from the
// staged state. Used by cashcanvas re-imports, which rebuild the store.
func (b *Batch) Clear() {
	b.staged = newState()
}

// EnsureCostCenter looks up or creates a cost center by name.
func (b *Batch) EnsureCostCenter(name string) (int64, error) {
	return b.staged.ensureCostCenter(name), nil
}

// EnsureSpendCategories looks up or creates every named spend category.
func (b *Batch) EnsureSpendCategories(names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		ids = append(ids, b.staged.ensureSpendCategory(name))
	}
	return ids, nil
}

// Insert stages a transaction and returns its assigned id.
func (b *Batch) Insert(t model.Transaction) (int64, error) {
	return b.staged.insert(t), nil
}

// Commit publishes the staged state. The swap is the only point where readers
// can observe the batch, so a load is all-or-nothing by construction.
func (b *Batch) Commit() error {
	if b.done {
		return &StorageError{Op: "commit", Err: errBatchDone}
	}
	b.done = true
	b.store.mu.Lock()
	b.store.state = b.staged
	b.store.mu.Unlock()
	return nil
}
