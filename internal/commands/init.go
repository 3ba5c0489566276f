package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/config"
	"github.com/mihir-gonsalves/CashCanvas/internal/importer"
)

func newInitCommand() *cobra.Command {
	var listen string
	var dataFile string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new CashCanvas project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, listen, dataFile)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "server listen address")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "transaction data file name")

	return cmd
}

func runInit(dir, listen, dataFile string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default()
	if listen != "" {
		cfg.Server.Listen = listen
	}
	if dataFile != "" {
		cfg.Data.File = dataFile
	}

	if err := config.Save(filepath.Join(dir, "cashcanvas.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed an empty data file so serve/import have something to read.
	dataPath := filepath.Join(dir, cfg.Data.File)
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		if err := os.WriteFile(dataPath, []byte(importer.ExportHeader+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing data file: %w", err)
		}
	}

	fmt.Printf("Initialized CashCanvas project at %s\n", dir)
	return nil
}
