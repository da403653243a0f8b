// Command marketctl runs operational tasks against the marketplace database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/database"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/logging"
	"gorm.io/gorm"
)

var Version = "dev"

// opener returns the database the commands operate on.
type opener func(cfg *config.Config) (*gorm.DB, error)

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.DB, nil
}

func main() {
	logging.Setup()

	if err := newRootCmd(config.Load(), openPostgres).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config, open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operate the Flinx marketplace backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd(cfg, open))
	rootCmd.AddCommand(paymentsCmd(cfg, open))
	rootCmd.AddCommand(logsCmd(cfg, open))
	return rootCmd
}

func migrateCmd(cfg *config.Config, open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every marketplace table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
