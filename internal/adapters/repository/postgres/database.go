package postgres

import (
	"context"
	"database/sql"
	"fileupload/internal/config"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Direction selects which way Migrate walks the migrations
type Direction string

const (
	MigrateUp   Direction = "up"
	MigrateDown Direction = "down"
)

// ErrNoChange is returned by Migrate when the schema is already where it was asked to be
var ErrNoChange = migrate.ErrNoChange

// Open connects to the catalog database and applies the pool settings of cfg
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)
	return db, nil
}

// Migrate applies every migration found in dir in the given direction
func Migrate(db *sql.DB, dir string, direction Direction) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations dir: %w", err)
	}
	source := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations from %s: %w", source, err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case MigrateUp:
		return m.Up()
	case MigrateDown:
		return m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}
