package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedName is the bucket used when an import or edit supplies no
// cost center (or, for cashcanvas files, no spend categories).
const UncategorizedName = "Uncategorized"

// Transaction is the canonical persisted transaction. Amount sign is the sole
// expense/income discriminator: negative = expense, positive = income.
type Transaction struct {
	ID               int64
	Date             time.Time // calendar date, midnight UTC
	Description      string
	Amount           decimal.Decimal
	Account          string
	Notes            string
	CostCenterID     int64
	SpendCategoryIDs []int64
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// Month returns the calendar month key, e.g. "2026-01".
func (t Transaction) Month() string { return t.Date.Format("2006-01") }

// CostCenter is the top-level spending bucket. Exactly one per transaction.
type CostCenter struct {
	ID   int64
	Name string
}

// SpendCategory is a granular tag, many-to-many with transactions.
type SpendCategory struct {
	ID   int64
	Name string
}

// Candidate is a validated transaction candidate produced by the normalizer.
// Cost center and spend categories are still names; the loader resolves them
// to store ids.
type Candidate struct {
	Date            time.Time
	Description     string
	Amount          decimal.Decimal
	Account         string
	CostCenter      string
	SpendCategories []string
	Notes           string
}
