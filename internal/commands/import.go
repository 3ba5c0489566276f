package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <institution> <file>",
		Short: "Import a bank CSV export into the data file",
		Long: "Import a bank CSV export into the data file.\n\n" +
			"Supported institutions: " + strings.Join(importer.Supported(), ", ") + ".\n" +
			"The file is validated as a whole; a single bad row rejects the import.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			institution, path := args[0], args[1]

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			count, err := importCSV(st, institution, data)
			if err != nil {
				return err
			}
			if err := saveStore(cfg, st); err != nil {
				return err
			}

			fmt.Printf("Imported %d transactions from %s (%d total)\n", count, path, st.Count())
			return nil
		},
	}

	return cmd
}
