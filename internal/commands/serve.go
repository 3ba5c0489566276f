package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/config"
	"github.com/mihir-gonsalves/CashCanvas/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env for local overrides; absence is fine.
			_ = godotenv.Load()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if listen := os.Getenv("CASHCANVAS_LISTEN"); listen != "" {
				cfg.Server.Listen = listen
			}
			if file := os.Getenv("CASHCANVAS_DATA_FILE"); file != "" {
				cfg.Data.File = file
			}

			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				Prefix:          "cashcanvas",
			})
			if os.Getenv("CASHCANVAS_DEBUG") != "" {
				logger.SetLevel(log.DebugLevel)
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			logger.Info("loaded transactions", "count", st.Count(), "file", cfg.Data.File)

			return server.New(cfg, logger, st).Start()
		},
	}

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
