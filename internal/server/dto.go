package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mihir-gonsalves/CashCanvas/internal/analytics"
	"github.com/mihir-gonsalves/CashCanvas/internal/filter"
	"github.com/mihir-gonsalves/CashCanvas/internal/model"
)

const dateLayout = "2006-01-02"

// compactTxn is the compact wire representation: relationships carry only
// foreign-key ids, full objects travel once per response in metadata arrays.
type compactTxn struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	Amount           float64 `json:"amount"`
	Account          string  `json:"account"`
	CostCenterID     int64   `json:"cost_center_id"`
	SpendCategoryIDs []int64 `json:"spend_category_ids"`
	Notes            string  `json:"notes,omitempty"`
}

type costCenterDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type spendCategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type paginatedResponse struct {
	Transactions    []compactTxn       `json:"transactions"`
	CostCenters     []costCenterDTO    `json:"cost_centers"`
	SpendCategories []spendCategoryDTO `json:"spend_categories"`
	Page            int                `json:"page"`
	PageSize        int                `json:"page_size"`
	Total           int                `json:"total"`
	TotalPages      int                `json:"total_pages"`
}

type monthlySpendingDTO struct {
	Month            string             `json:"month"`
	Total            float64            `json:"total"`
	ExpenseTotal     float64            `json:"expense_total"`
	IncomeTotal      float64            `json:"income_total"`
	TransactionCount int                `json:"transaction_count"`
	ByCostCenter     map[string]float64 `json:"by_cost_center"`
}

type costCenterSpendingDTO struct {
	CostCenterID     int64   `json:"cost_center_id"`
	CostCenterName   string  `json:"cost_center_name"`
	Total            float64 `json:"total"`
	ExpenseTotal     float64 `json:"expense_total"`
	IncomeTotal      float64 `json:"income_total"`
	TransactionCount int     `json:"transaction_count"`
}

type spendCategoryStatsDTO struct {
	SpendCategoryID   int64   `json:"spend_category_id"`
	SpendCategoryName string  `json:"spend_category_name"`
	Total             float64 `json:"total"`
	ExpenseTotal      float64 `json:"expense_total"`
	IncomeTotal       float64 `json:"income_total"`
	TransactionCount  int     `json:"transaction_count"`
}

type balancePointDTO struct {
	Date           string  `json:"date"`
	Balance        float64 `json:"balance"`
	Description    string  `json:"description"`
	Amount         float64 `json:"amount"`
	CostCenterName string  `json:"cost_center_name"`
}

type analyticsResponse struct {
	TotalSpent           float64                 `json:"total_spent"`
	TotalIncome          float64                 `json:"total_income"`
	TotalCash            float64                 `json:"total_cash"`
	TotalTransactions    int                     `json:"total_transactions"`
	TotalCostCenters     int                     `json:"total_cost_centers"`
	TotalSpendCategories int                     `json:"total_spend_categories"`
	AvgExpense           float64                 `json:"avg_expense"`
	AvgIncome            float64                 `json:"avg_income"`
	MonthlySpending      []monthlySpendingDTO    `json:"monthly_spending"`
	CostCenterSpending   []costCenterSpendingDTO `json:"cost_center_spending"`
	SpendCategoryStats   []spendCategoryStatsDTO `json:"spend_category_stats"`
	BalanceTimeline      []balancePointDTO       `json:"balance_timeline"`
}

func toCompact(t model.Transaction) compactTxn {
	if t.SpendCategoryIDs == nil {
		t.SpendCategoryIDs = []int64{}
	}
	return compactTxn{
		ID:               t.ID,
		Date:             t.Date.Format(dateLayout),
		Description:      t.Description,
		Amount:           t.Amount.InexactFloat64(),
		Account:          t.Account,
		CostCenterID:     t.CostCenterID,
		SpendCategoryIDs: t.SpendCategoryIDs,
		Notes:            t.Notes,
	}
}

func toAnalyticsResponse(r analytics.Report) analyticsResponse {
	resp := analyticsResponse{
		TotalSpent:           r.TotalSpent.InexactFloat64(),
		TotalIncome:          r.TotalIncome.InexactFloat64(),
		TotalCash:            r.TotalCash.InexactFloat64(),
		TotalTransactions:    r.TotalTransactions,
		TotalCostCenters:     r.TotalCostCenters,
		TotalSpendCategories: r.TotalSpendCategories,
		AvgExpense:           r.AvgExpense.InexactFloat64(),
		AvgIncome:            r.AvgIncome.InexactFloat64(),
		MonthlySpending:      []monthlySpendingDTO{},
		CostCenterSpending:   []costCenterSpendingDTO{},
		SpendCategoryStats:   []spendCategoryStatsDTO{},
		BalanceTimeline:      []balancePointDTO{},
	}
	for _, m := range r.MonthlySpending {
		byCC := make(map[string]float64, len(m.ByCostCenter))
		for name, v := range m.ByCostCenter {
			byCC[name] = v.InexactFloat64()
		}
		resp.MonthlySpending = append(resp.MonthlySpending, monthlySpendingDTO{
			Month:            m.Month,
			Total:            m.Total.InexactFloat64(),
			ExpenseTotal:     m.ExpenseTotal.InexactFloat64(),
			IncomeTotal:      m.IncomeTotal.InexactFloat64(),
			TransactionCount: m.TransactionCount,
			ByCostCenter:     byCC,
		})
	}
	for _, cc := range r.CostCenterSpending {
		resp.CostCenterSpending = append(resp.CostCenterSpending, costCenterSpendingDTO{
			CostCenterID:     cc.CostCenterID,
			CostCenterName:   cc.CostCenterName,
			Total:            cc.Total.InexactFloat64(),
			ExpenseTotal:     cc.ExpenseTotal.InexactFloat64(),
			IncomeTotal:      cc.IncomeTotal.InexactFloat64(),
			TransactionCount: cc.TransactionCount,
		})
	}
	for _, cat := range r.SpendCategoryStats {
		resp.SpendCategoryStats = append(resp.SpendCategoryStats, spendCategoryStatsDTO{
			SpendCategoryID:   cat.SpendCategoryID,
			SpendCategoryName: cat.SpendCategoryName,
			Total:             cat.Total.InexactFloat64(),
			ExpenseTotal:      cat.ExpenseTotal.InexactFloat64(),
			IncomeTotal:       cat.IncomeTotal.InexactFloat64(),
			TransactionCount:  cat.TransactionCount,
		})
	}
	for _, p := range r.BalanceTimeline {
		resp.BalanceTimeline = append(resp.BalanceTimeline, balancePointDTO{
			Date:           p.Date.Format(dateLayout),
			Balance:        p.Balance.InexactFloat64(),
			Description:    p.Description,
			Amount:         p.Amount.InexactFloat64(),
			CostCenterName: p.CostCenterName,
		})
	}
	return resp
}

func (s *Server) costCenterDTOs() []costCenterDTO {
	ccs := s.store.CostCenters()
	out := make([]costCenterDTO, 0, len(ccs))
	for _, cc := range ccs {
		out = append(out, costCenterDTO{ID: cc.ID, Name: cc.Name})
	}
	return out
}

func (s *Server) spendCategoryDTOs() []spendCategoryDTO {
	cats := s.store.SpendCategories()
	out := make([]spendCategoryDTO, 0, len(cats))
	for _, cat := range cats {
		out = append(out, spendCategoryDTO{ID: cat.ID, Name: cat.Name})
	}
	return out
}

// specFromQuery builds a filter spec from the shared query parameters used by
// both /filter and /analytics.
func specFromQuery(c *gin.Context) (filter.Spec, error) {
	spec := filter.Spec{Search: c.Query("search")}

	if v := c.Query("start_date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return spec, fmt.Errorf("invalid start_date %q", v)
		}
		spec.StartDate = &d
	}
	if v := c.Query("end_date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return spec, fmt.Errorf("invalid end_date %q", v)
		}
		spec.EndDate = &d
	}
	if v := c.Query("min_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return spec, fmt.Errorf("invalid min_amount %q", v)
		}
		spec.MinAmount = &d
	}
	if v := c.Query("max_amount"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return spec, fmt.Errorf("invalid max_amount %q", v)
		}
		spec.MaxAmount = &d
	}

	ccIDs, err := queryIDs(c, "cost_center_ids")
	if err != nil {
		return spec, err
	}
	spec.CostCenterIDs = ccIDs

	catIDs, err := queryIDs(c, "spend_category_ids")
	if err != nil {
		return spec, err
	}
	spec.SpendCategoryIDs = catIDs

	spec.Accounts = c.QueryArray("account")
	return spec, nil
}

// queryIDs parses a repeatable integer query parameter, also accepting a
// single comma-separated value.
func queryIDs(c *gin.Context, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s value %q", name, part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
