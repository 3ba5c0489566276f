package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihir-gonsalves/CashCanvas/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cashcanvas",
		Short:   "Turn bank CSV exports into categorized, queryable transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "cashcanvas.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newStatsCommand())

	return rootCmd
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
