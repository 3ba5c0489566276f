package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	ccNames  = map[int64]string{1: "Groceries", 2: "Gasoline", 3: "Income"}
	catNames = map[int64]string{1: "produce", 2: "snacks"}
)

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		{ID: 1, Date: date(2026, 1, 10), Description: "WHOLE FOODS", Amount: dec("-45.00"), Account: "Discover", CostCenterID: 1, SpendCategoryIDs: []int64{1, 2}},
		{ID: 2, Date: date(2026, 1, 20), Description: "SHELL", Amount: dec("-30.00"), Account: "Discover", CostCenterID: 2},
		{ID: 3, Date: date(2026, 2, 1), Description: "PAYROLL", Amount: dec("3500.00"), Account: "Schwab Checking", CostCenterID: 3},
		{ID: 4, Date: date(2026, 2, 5), Description: "TRADER JOES", Amount: dec("-25.00"), Account: "Discover", CostCenterID: 1, SpendCategoryIDs: []int64{1}},
	}
}

func TestCompute_Totals(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	assert.True(t, r.TotalSpent.Equal(dec("-100.00")), "got %s", r.TotalSpent)
	assert.True(t, r.TotalIncome.Equal(dec("3500.00")))
	assert.True(t, r.TotalCash.Equal(dec("3400.00")))
	assert.Equal(t, 4, r.TotalTransactions)
	assert.Equal(t, 3, r.TotalCostCenters)
	assert.Equal(t, 2, r.TotalSpendCategories)
}

func TestCompute_Averages(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	// Three expenses totaling -100, one income of 3500.
	assert.True(t, r.AvgExpense.Round(4).Equal(dec("-33.3333")), "got %s", r.AvgExpense)
	assert.True(t, r.AvgIncome.Equal(dec("3500.00")))
}

func TestCompute_AveragesGuardZeroCounts(t *testing.T) {
	onlyIncome := []model.Transaction{
		{ID: 1, Date: date(2026, 1, 1), Amount: dec("100.00"), CostCenterID: 3},
	}
	r := Compute(onlyIncome, ccNames, catNames)
	assert.True(t, r.AvgExpense.IsZero())
	assert.True(t, r.AvgIncome.Equal(dec("100.00")))
}

func TestCompute_ZeroAmountIsNeitherExpenseNorIncome(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Date: date(2026, 1, 1), Amount: dec("0"), CostCenterID: 1},
	}
	r := Compute(txns, ccNames, catNames)
	assert.True(t, r.TotalSpent.IsZero())
	assert.True(t, r.TotalIncome.IsZero())
	assert.True(t, r.AvgExpense.IsZero())
	assert.True(t, r.AvgIncome.IsZero())
}

func TestCompute_EmptyInput(t *testing.T) {
	r := Compute(nil, ccNames, catNames)
	assert.Equal(t, 0, r.TotalTransactions)
	assert.NotNil(t, r.MonthlySpending)
	assert.NotNil(t, r.CostCenterSpending)
	assert.NotNil(t, r.SpendCategoryStats)
	assert.NotNil(t, r.BalanceTimeline)
	assert.Empty(t, r.MonthlySpending)
}

func TestMonthlySpending_AscendingByMonth(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	require.Len(t, r.MonthlySpending, 2)
	jan, feb := r.MonthlySpending[0], r.MonthlySpending[1]

	assert.Equal(t, "2026-01", jan.Month)
	assert.True(t, jan.ExpenseTotal.Equal(dec("-75.00")))
	assert.True(t, jan.IncomeTotal.IsZero())
	assert.Equal(t, 2, jan.TransactionCount)
	assert.True(t, jan.ByCostCenter["Groceries"].Equal(dec("-45.00")))
	assert.True(t, jan.ByCostCenter["Gasoline"].Equal(dec("-30.00")))

	assert.Equal(t, "2026-02", feb.Month)
	assert.True(t, feb.IncomeTotal.Equal(dec("3500.00")))
	assert.True(t, feb.ExpenseTotal.Equal(dec("-25.00")))
	assert.NotContains(t, feb.ByCostCenter, "Income", "income stays out of the expense breakdown")
}

func TestCostCenterSpending_BiggestExpenseBucketFirst(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	require.Len(t, r.CostCenterSpending, 3)
	assert.Equal(t, "Groceries", r.CostCenterSpending[0].CostCenterName)
	assert.True(t, r.CostCenterSpending[0].ExpenseTotal.Equal(dec("-70.00")))
	assert.Equal(t, "Gasoline", r.CostCenterSpending[1].CostCenterName)
	assert.Equal(t, "Income", r.CostCenterSpending[2].CostCenterName)
	assert.True(t, r.CostCenterSpending[2].IncomeTotal.Equal(dec("3500.00")))
}

func TestCostCenterSpending_TieBreaksOnName(t *testing.T) {
	txns := []model.Transaction{
		{ID: 1, Date: date(2026, 1, 1), Amount: dec("-10.00"), CostCenterID: 2},
		{ID: 2, Date: date(2026, 1, 2), Amount: dec("-10.00"), CostCenterID: 1},
	}
	r := Compute(txns, ccNames, catNames)
	require.Len(t, r.CostCenterSpending, 2)
	assert.Equal(t, "Gasoline", r.CostCenterSpending[0].CostCenterName)
	assert.Equal(t, "Groceries", r.CostCenterSpending[1].CostCenterName)
}

func TestSpendCategoryStats_MultiCategoryCountsInEach(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	require.Len(t, r.SpendCategoryStats, 2)
	// produce: txns 1 and 4 = -70; snacks: txn 1 = -45.
	assert.Equal(t, "produce", r.SpendCategoryStats[0].SpendCategoryName)
	assert.True(t, r.SpendCategoryStats[0].ExpenseTotal.Equal(dec("-70.00")))
	assert.Equal(t, 2, r.SpendCategoryStats[0].TransactionCount)
	assert.Equal(t, "snacks", r.SpendCategoryStats[1].SpendCategoryName)
	assert.Equal(t, 1, r.SpendCategoryStats[1].TransactionCount)
}

func TestBalanceTimeline_RunningTotal(t *testing.T) {
	r := Compute(sampleTxns(), ccNames, catNames)

	require.Len(t, r.BalanceTimeline, 4)
	assert.True(t, r.BalanceTimeline[0].Balance.Equal(dec("-45.00")))
	assert.True(t, r.BalanceTimeline[1].Balance.Equal(dec("-75.00")))
	assert.True(t, r.BalanceTimeline[2].Balance.Equal(dec("3425.00")))
	assert.True(t, r.BalanceTimeline[3].Balance.Equal(dec("3400.00")))
	assert.Equal(t, "Groceries", r.BalanceTimeline[0].CostCenterName)
}

func TestBalanceTimeline_SameDayOrderedByID(t *testing.T) {
	txns := []model.Transaction{
		{ID: 2, Date: date(2026, 1, 1), Description: "SECOND", Amount: dec("-5.00"), CostCenterID: 1},
		{ID: 1, Date: date(2026, 1, 1), Description: "FIRST", Amount: dec("-10.00"), CostCenterID: 1},
	}
	r := Compute(txns, ccNames, catNames)
	require.Len(t, r.BalanceTimeline, 2)
	assert.Equal(t, "FIRST", r.BalanceTimeline[0].Description)
	assert.True(t, r.BalanceTimeline[0].Balance.Equal(dec("-10.00")))
	assert.True(t, r.BalanceTimeline[1].Balance.Equal(dec("-15.00")))
}
