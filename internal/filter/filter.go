// Package filter translates a filter specification into a predicate over
// transactions, with 1-indexed pagination.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

const (
	// DefaultPageSize applies when a request omits page_size.
	DefaultPageSize = 100
	// MaxPageSize is the hard cap on page_size.
	MaxPageSize = 1000
)

// Spec is a filter specification. Nil/empty fields mean "no constraint on
// that dimension". Present dimensions combine with AND; membership within a
// multi-valued dimension is OR.
type Spec struct {
	Search           string
	StartDate        *time.Time
	EndDate          *time.Time
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
	CostCenterIDs    []int64
	SpendCategoryIDs []int64
	Accounts         []string
}

// PaginationError reports page or page_size out of bounds.
type PaginationError struct {
	Reason string
}

func (e *PaginationError) Error() string { return e.Reason }

// Matches reports whether a transaction satisfies every present dimension.
func (s Spec) Matches(t model.Transaction) bool {
	if s.Search != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(s.Search)) {
		return false
	}
	if s.StartDate != nil && t.Date.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && t.Date.After(*s.EndDate) {
		return false
	}
	if s.MinAmount != nil && t.Amount.LessThan(*s.MinAmount) {
		return false
	}
	if s.MaxAmount != nil && t.Amount.GreaterThan(*s.MaxAmount) {
		return false
	}
	if len(s.CostCenterIDs) > 0 && !containsID(s.CostCenterIDs, t.CostCenterID) {
		return false
	}
	if len(s.SpendCategoryIDs) > 0 && !anyID(s.SpendCategoryIDs, t.SpendCategoryIDs) {
		return false
	}
	if len(s.Accounts) > 0 && !containsString(s.Accounts, t.Account) {
		return false
	}
	return true
}

// Apply returns the transactions matching the spec, preserving input order.
func Apply(txns []model.Transaction, spec Spec) []model.Transaction {
	matched := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if spec.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Page is one page of filtered transactions plus pagination metadata.
type Page struct {
	Transactions []model.Transaction
	Page         int
	PageSize     int
	Total        int
	TotalPages   int
}

// Paginate slices the matched set. Pagination is 1-indexed; page must be >= 1
// and pageSize within 1..MaxPageSize. TotalPages is ceil(total/pageSize) and
// 0 for an empty result. Input order is preserved so adjacent pages of an
// unmodified store never skip or duplicate a transaction.
func Paginate(matched []model.Transaction, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, &PaginationError{Reason: fmt.Sprintf("page must be >= 1, got %d", page)}
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return Page{}, &PaginationError{Reason: fmt.Sprintf("page_size must be between 1 and %d, got %d", MaxPageSize, pageSize)}
	}

	total := len(matched)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Transactions: matched[start:end],
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   totalPages,
	}, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func anyID(want []int64, have []int64) bool {
	for _, h := range have {
		if containsID(want, h) {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
