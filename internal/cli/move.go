package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <name> <target-dir>",
		Short: "Move a stored file and its versions below the profile's target root",
		Args:  cobra.ExactArgs(2),
		RunE:  runMove,
	}

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := newFileManager().Move(ctx, profileName, args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to move %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, result)
	}
	fmt.Fprintf(out, "%s -> %s\n", args[0], result.URL)
	return nil
}
