// Package analytics computes pre-aggregated, pre-sorted statistics over a
// filtered transaction set. The sort orders here are part of the external
// contract: consumers render the arrays as-is and must never re-sort them.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

// MonthlySpending aggregates one calendar month (YYYY-MM). ByCostCenter
// breaks the month's expenses down per cost center for chart tooltips.
type MonthlySpending struct {
	Month            string
	Total            decimal.Decimal
	ExpenseTotal     decimal.Decimal
	IncomeTotal      decimal.Decimal
	TransactionCount int
	ByCostCenter     map[string]decimal.Decimal
}

// CostCenterSpending aggregates one cost center.
type CostCenterSpending struct {
	CostCenterID     int64
	CostCenterName   string
	Total            decimal.Decimal
	ExpenseTotal     decimal.Decimal
	IncomeTotal      decimal.Decimal
	TransactionCount int
}

// SpendCategoryStats aggregates one spend category. A transaction with N
// categories contributes to all N groups.
type SpendCategoryStats struct {
	SpendCategoryID   int64
	SpendCategoryName string
	Total             decimal.Decimal
	ExpenseTotal      decimal.Decimal
	IncomeTotal       decimal.Decimal
	TransactionCount  int
}

// BalancePoint is one step of the cumulative balance timeline.
type BalancePoint struct {
	Date           time.Time
	Balance        decimal.Decimal
	Description    string
	Amount         decimal.Decimal
	CostCenterName string
}

// Report is the full analytics response for a filtered set.
type Report struct {
	TotalSpent           decimal.Decimal // signed sum of negative amounts
	TotalIncome          decimal.Decimal // sum of positive amounts
	TotalCash            decimal.Decimal // TotalSpent + TotalIncome
	TotalTransactions    int
	TotalCostCenters     int
	TotalSpendCategories int
	AvgExpense           decimal.Decimal
	AvgIncome            decimal.Decimal
	MonthlySpending      []MonthlySpending
	CostCenterSpending   []CostCenterSpending
	SpendCategoryStats   []SpendCategoryStats
	BalanceTimeline      []BalancePoint
}

// Compute builds a Report over the given transactions (already filtered, no
// pagination). ccNames and catNames resolve ids to display names.
func Compute(txns []model.Transaction, ccNames, catNames map[int64]string) Report {
	r := Report{
		TotalTransactions:  len(txns),
		MonthlySpending:    []MonthlySpending{},
		CostCenterSpending: []CostCenterSpending{},
		SpendCategoryStats: []SpendCategoryStats{},
		BalanceTimeline:    []BalancePoint{},
	}
	if len(txns) == 0 {
		return r
	}

	var expenseCount, incomeCount int
	for _, t := range txns {
		switch {
		case t.IsExpense():
			r.TotalSpent = r.TotalSpent.Add(t.Amount)
			expenseCount++
		case t.IsIncome():
			r.TotalIncome = r.TotalIncome.Add(t.Amount)
			incomeCount++
		}
	}
	r.TotalCash = r.TotalSpent.Add(r.TotalIncome)
	if expenseCount > 0 {
		r.AvgExpense = r.TotalSpent.Div(decimal.NewFromInt(int64(expenseCount)))
	}
	if incomeCount > 0 {
		r.AvgIncome = r.TotalIncome.Div(decimal.NewFromInt(int64(incomeCount)))
	}

	r.MonthlySpending = monthlySpending(txns, ccNames)
	r.CostCenterSpending = costCenterSpending(txns, ccNames)
	r.SpendCategoryStats = spendCategoryStats(txns, catNames)
	r.BalanceTimeline = balanceTimeline(txns, ccNames)

	ccSeen := make(map[int64]bool)
	catSeen := make(map[int64]bool)
	for _, t := range txns {
		ccSeen[t.CostCenterID] = true
		for _, id := range t.SpendCategoryIDs {
			catSeen[id] = true
		}
	}
	r.TotalCostCenters = len(ccSeen)
	r.TotalSpendCategories = len(catSeen)

	return r
}

// monthlySpending groups by calendar month, ascending by month.
func monthlySpending(txns []model.Transaction, ccNames map[int64]string) []MonthlySpending {
	groups := make(map[string]*MonthlySpending)
	for _, t := range txns {
		key := t.Month()
		g, ok := groups[key]
		if !ok {
			g = &MonthlySpending{Month: key, ByCostCenter: make(map[string]decimal.Decimal)}
			groups[key] = g
		}
		g.Total = g.Total.Add(t.Amount)
		g.TransactionCount++
		if t.IsExpense() {
			g.ExpenseTotal = g.ExpenseTotal.Add(t.Amount)
			name := ccNames[t.CostCenterID]
			g.ByCostCenter[name] = g.ByCostCenter[name].Add(t.Amount)
		} else {
			g.IncomeTotal = g.IncomeTotal.Add(t.Amount)
		}
	}

	out := make([]MonthlySpending, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// costCenterSpending groups by cost center, largest expense bucket first.
// Expense totals are negative sums, so the biggest bucket is the numerically
// smallest value; ties break on name for determinism.
func costCenterSpending(txns []model.Transaction, ccNames map[int64]string) []CostCenterSpending {
	groups := make(map[int64]*CostCenterSpending)
	for _, t := range txns {
		g, ok := groups[t.CostCenterID]
		if !ok {
			g = &CostCenterSpending{CostCenterID: t.CostCenterID, CostCenterName: ccNames[t.CostCenterID]}
			groups[t.CostCenterID] = g
		}
		g.Total = g.Total.Add(t.Amount)
		g.TransactionCount++
		if t.IsExpense() {
			g.ExpenseTotal = g.ExpenseTotal.Add(t.Amount)
		} else {
			g.IncomeTotal = g.IncomeTotal.Add(t.Amount)
		}
	}

	out := make([]CostCenterSpending, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpenseTotal.Equal(out[j].ExpenseTotal) {
			return out[i].ExpenseTotal.LessThan(out[j].ExpenseTotal)
		}
		return out[i].CostCenterName < out[j].CostCenterName
	})
	return out
}

// spendCategoryStats groups by spend category, largest expense bucket first.
func spendCategoryStats(txns []model.Transaction, catNames map[int64]string) []SpendCategoryStats {
	groups := make(map[int64]*SpendCategoryStats)
	for _, t := range txns {
		for _, catID := range t.SpendCategoryIDs {
			g, ok := groups[catID]
			if !ok {
				g = &SpendCategoryStats{SpendCategoryID: catID, SpendCategoryName: catNames[catID]}
				groups[catID] = g
			}
			g.Total = g.Total.Add(t.Amount)
			g.TransactionCount++
			if t.IsExpense() {
				g.ExpenseTotal = g.ExpenseTotal.Add(t.Amount)
			} else {
				g.IncomeTotal = g.IncomeTotal.Add(t.Amount)
			}
		}
	}

	out := make([]SpendCategoryStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpenseTotal.Equal(out[j].ExpenseTotal) {
			return out[i].ExpenseTotal.LessThan(out[j].ExpenseTotal)
		}
		return out[i].SpendCategoryName < out[j].SpendCategoryName
	})
	return out
}

// balanceTimeline computes the running total ordered by date ascending,
// tie-broken by transaction id, so same-day entries are deterministic.
func balanceTimeline(txns []model.Transaction, ccNames map[int64]string) []BalancePoint {
	ordered := make([]model.Transaction, len(txns))
	copy(ordered, txns)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})

	balance := decimal.Zero
	points := make([]BalancePoint, 0, len(ordered))
	for _, t := range ordered {
		balance = balance.Add(t.Amount)
		points = append(points, BalancePoint{
			Date:           t.Date,
			Balance:        balance,
			Description:    t.Description,
			Amount:         t.Amount,
			CostCenterName: ccNames[t.CostCenterID],
		})
	}
	return points
}
