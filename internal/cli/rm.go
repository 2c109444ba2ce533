package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete stored files and their versions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRm,
	}

	return cmd
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	service := newUploadService()
	out := cmd.OutOrStdout()
	var errs []error
	for _, name := range args {
		ok, err := service.Destroy(ctx, profileName, name, listener())
		if err != nil {
			return err
		}
		if !ok {
			errs = append(errs, fmt.Errorf("failed to delete %s", name))
			continue
		}
		fmt.Fprintf(out, "deleted %s\n", name)
	}
	return errors.Join(errs...)
}
