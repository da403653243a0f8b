package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/config"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/logging"
)

func logsCmd(cfg *config.Config, open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Maintain persisted system logs",
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete system logs older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			retention, _ := cmd.Flags().GetDuration("retention")
			db, err := open(cfg)
			if err != nil {
				return err
			}
			n := logging.PurgeOlderThan(cmd.Context(), db, time.Now().Add(-retention))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d log records\n", n)
			return nil
		},
	}
	purge.Flags().Duration("retention", cfg.LogRetention, "Keep records newer than this")
	cmd.AddCommand(purge)
	return cmd
}
