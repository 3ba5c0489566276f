package filter

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

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var sample = []model.Transaction{
	{ID: 1, Date: date(2026, 1, 10), Description: "WHOLE FOODS #123", Amount: dec("-45.23"), Account: "Discover", CostCenterID: 1, SpendCategoryIDs: []int64{1}},
	{ID: 2, Date: date(2026, 1, 20), Description: "SHELL GAS", Amount: dec("-30.00"), Account: "Discover", CostCenterID: 2, SpendCategoryIDs: []int64{2}},
	{ID: 3, Date: date(2026, 2, 1), Description: "PAYROLL", Amount: dec("3500.00"), Account: "Schwab Checking", CostCenterID: 3},
	{ID: 4, Date: date(2026, 2, 5), Description: "whole foods market", Amount: dec("-12.50"), Account: "Discover", CostCenterID: 1, SpendCategoryIDs: []int64{1, 2}},
}

func ids(txns []model.Transaction) []int64 {
	out := make([]int64, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func TestApply_EmptySpecMatchesAll(t *testing.T) {
	matched := Apply(sample, Spec{})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(matched))
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	matched := Apply(sample, Spec{Search: "WHOLE"})
	assert.Equal(t, []int64{1, 4}, ids(matched))

	matched = Apply(sample, Spec{Search: "foods MAR"})
	assert.Equal(t, []int64{4}, ids(matched))
}

func TestApply_DateBoundsInclusive(t *testing.T) {
	matched := Apply(sample, Spec{
		StartDate: datePtr(2026, 1, 20),
		EndDate:   datePtr(2026, 2, 1),
	})
	assert.Equal(t, []int64{2, 3}, ids(matched))
}

func TestApply_AmountBoundsInclusive(t *testing.T) {
	matched := Apply(sample, Spec{
		MinAmount: decPtr("-45.23"),
		MaxAmount: decPtr("-12.50"),
	})
	assert.Equal(t, []int64{1, 2, 4}, ids(matched))
}

func TestApply_MinAmountZeroSelectsIncome(t *testing.T) {
	// min_amount=0 is a present constraint, not an absent one.
	matched := Apply(sample, Spec{MinAmount: decPtr("0")})
	assert.Equal(t, []int64{3}, ids(matched))
}

func TestApply_CostCenterSetIsOR(t *testing.T) {
	matched := Apply(sample, Spec{CostCenterIDs: []int64{1, 3}})
	assert.Equal(t, []int64{1, 3, 4}, ids(matched))
}

func TestApply_SpendCategoryOverlap(t *testing.T) {
	matched := Apply(sample, Spec{SpendCategoryIDs: []int64{2}})
	assert.Equal(t, []int64{2, 4}, ids(matched))
}

func TestApply_AccountExactMatch(t *testing.T) {
	matched := Apply(sample, Spec{Accounts: []string{"Schwab Checking"}})
	assert.Equal(t, []int64{3}, ids(matched))
}

func TestApply_DimensionsAreANDed(t *testing.T) {
	matched := Apply(sample, Spec{
		Search:        "whole",
		CostCenterIDs: []int64{1},
		StartDate:     datePtr(2026, 2, 1),
	})
	assert.Equal(t, []int64{4}, ids(matched))
}

func TestPaginate(t *testing.T) {
	page, err := Paginate(sample, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(page.Transactions))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page, err = Paginate(sample, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(page.Transactions))
}

func TestPaginate_TotalPagesExactMultiple(t *testing.T) {
	page, err := Paginate(sample, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPaginate_PastEndIsEmpty(t *testing.T) {
	page, err := Paginate(sample, 5, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPaginate_EmptyResult(t *testing.T) {
	page, err := Paginate(nil, 1, 100)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPaginate_Bounds(t *testing.T) {
	_, err := Paginate(sample, 0, 10)
	var pageErr *PaginationError
	require.ErrorAs(t, err, &pageErr)

	_, err = Paginate(sample, 1, 0)
	require.ErrorAs(t, err, &pageErr)

	_, err = Paginate(sample, 1, MaxPageSize+1)
	require.ErrorAs(t, err, &pageErr)

	_, err = Paginate(sample, 1, MaxPageSize)
	require.NoError(t, err)
}
