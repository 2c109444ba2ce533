package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored files of a profile",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	files, err := newFileManager().List(ctx, profileName, "")
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, files)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files found")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(out, "%s\t%d\t%s\t%d versions\n", f.Name, f.Size, f.Type, len(f.Versions))
	}
	return nil
}
