package main

import (
	"context"
	"errors"
	"fileupload/internal/adapters/repository/postgres"
	"fileupload/internal/config"
	"flag"
	"log/slog"
	"os"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var up, down bool
	flag.StringVar(&cfg.Database.URL, "database", cfg.Database.URL, "database URL, overrides DATABASE_URL and DB_*")
	flag.StringVar(&cfg.Database.MigrationsDir, "source", cfg.Database.MigrationsDir, "migrations directory")
	flag.BoolVar(&up, "up", false, "apply every pending migration")
	flag.BoolVar(&down, "down", false, "roll back every migration")
	flag.Parse()

	if up == down {
		logger.Error("exactly one of -up or -down is required")
		os.Exit(2)
	}
	direction := postgres.MigrateUp
	if down {
		direction = postgres.MigrateDown
	}

	db, err := postgres.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("running migrations", "direction", direction, "source", cfg.Database.MigrationsDir)
	err = postgres.Migrate(db, cfg.Database.MigrationsDir, direction)
	switch {
	case errors.Is(err, postgres.ErrNoChange):
		logger.Info("schema already up to date", "direction", direction)
	case err != nil:
		logger.Error("failed to run migrations", "direction", direction, "error", err)
		db.Close()
		os.Exit(1)
	default:
		logger.Info("migrations completed", "direction", direction)
	}
}
