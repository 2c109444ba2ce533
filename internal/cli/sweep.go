package cli

import (
	"fileupload/internal/core/service/cleanup"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove temp files and name reservations left by interrupted uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				olderThan = cfg.Upload.TempTTL
			}
			removed, err := cleanup.NewCleanupService(profiles, logger).
				CleanupStaleTempFiles(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("failed to sweep: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale files\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Minimum age of removed files (defaults to UPLOAD_TEMP_TTL)")

	return cmd
}
