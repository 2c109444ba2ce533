package cli

import (
	"encoding/json"
	"fileupload/internal/config"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/filemanager"
	"fileupload/internal/core/service/lifecycle"
	"fileupload/internal/core/service/upload"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	profileName string
	jsonOutput  bool
	verbose     bool

	cfg      *config.Config
	profiles []domain.UploadProfile
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "uploadctl",
	Short: "Manage stored uploads",
	Long:  "Command line tool to list, move, delete and sweep files stored by the upload api",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if profiles, err = config.LoadProfiles(cfg.Upload); err != nil {
			return fmt.Errorf("failed to load upload profiles: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", config.DefaultProfileName,
		"Upload profile to operate on")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log lifecycle events and debug output")

	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newSweepCmd())
}

func listener() port.EventListener {
	return lifecycle.NewLoggingListener(logger)
}

func newUploadService() port.UploadService {
	return upload.NewUploadService(profiles, nil, logger)
}

func newFileManager() port.FileManager {
	return filemanager.NewFileManager(profiles, listener(), logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
