package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/analytics"
)

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics for all transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			report := analytics.Compute(st.Transactions(), st.CostCenterNames(), st.SpendCategoryNames())

			fmt.Printf("Transactions:     %d\n", report.TotalTransactions)
			fmt.Printf("Total spent:      %s\n", report.TotalSpent.StringFixed(2))
			fmt.Printf("Total income:     %s\n", report.TotalIncome.StringFixed(2))
			fmt.Printf("Net cash:         %s\n", report.TotalCash.StringFixed(2))
			fmt.Printf("Cost centers:     %d\n", report.TotalCostCenters)
			fmt.Printf("Spend categories: %d\n", report.TotalSpendCategories)

			if len(report.CostCenterSpending) > 0 {
				fmt.Println("\nSpending by cost center:")
				for _, cc := range report.CostCenterSpending {
					fmt.Printf("  %-30s %12s  (%d txns)\n", cc.CostCenterName, cc.Total.StringFixed(2), cc.TransactionCount)
				}
			}
			return nil
		},
	}

	return cmd
}
