package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export all transactions as a CashCanvas CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			out := os.Stdout
			if len(args) > 0 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer f.Close()
				out = f
			}

			return importer.WriteCashCanvas(out, st.Transactions(), st.CostCenterNames(), st.SpendCategoryNames())
		},
	}

	return cmd
}
