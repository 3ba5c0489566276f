// Package loader commits validated transaction candidates to the store as a
// single atomic unit: the store is never left with a half-imported file.
package loader

import (
	"github.com/mihir-gonsalves/CashCanvas/internal/model"
	"github.com/mihir-gonsalves/CashCanvas/internal/store"
)

// Batch is the staged-write surface the loader needs from a store.
type Batch interface {
	Clear()
	EnsureCostCenter(name string) (int64, error)
	EnsureSpendCategories(names []string) ([]int64, error)
	Insert(t model.Transaction) (int64, error)
	Commit() error
}

// Load resolves each candidate's cost center and spend categories (creating
// them on first reference), inserts the transactions, and commits the batch.
// With replaceAll set the store is cleared first (full rebuild semantics for
// cashcanvas re-imports). Any failure abandons the batch uncommitted, so
// nothing is applied. Returns the number of inserted transactions.
func Load(batch Batch, candidates []model.Candidate, replaceAll bool) (int, error) {
	if replaceAll {
		batch.Clear()
	}

	for _, cand := range candidates {
		ccID, err := batch.EnsureCostCenter(cand.CostCenter)
		if err != nil {
			return 0, &store.StorageError{Op: "resolve cost center", Err: err}
		}
		catIDs, err := batch.EnsureSpendCategories(cand.SpendCategories)
		if err != nil {
			return 0, &store.StorageError{Op: "resolve spend categories", Err: err}
		}
		if _, err := batch.Insert(model.Transaction{
			Date:             cand.Date,
			Description:      cand.Description,
			Amount:           cand.Amount,
			Account:          cand.Account,
			Notes:            cand.Notes,
			CostCenterID:     ccID,
			SpendCategoryIDs: catIDs,
		}); err != nil {
			return 0, &store.StorageError{Op: "insert transaction", Err: err}
		}
	}

	if err := batch.Commit(); err != nil {
		return 0, &store.StorageError{Op: "commit", Err: err}
	}
	return len(candidates), nil
}
