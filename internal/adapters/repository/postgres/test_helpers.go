package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fileupload/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir walks up to the module root and returns its db/migrations directory
func migrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "db", "migrations"), nil
		}
		if wd == filepath.Dir(wd) {
			return "", errors.New("go.mod not found in any parent directory")
		}
		wd = filepath.Dir(wd)
	}
}

// NewTestDB starts a migrated catalog database in a container; the second func empties every table
func NewTestDB(t *testing.T) (*sql.DB, func(), func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	cfg := config.DatabaseConfig{
		User:           "uploader",
		Password:       "uploader",
		Name:           "uploads_test",
		SSLMode:        "disable",
		MaxOpenCons:    5,
		MaxIdleCons:    2,
		ConMaxLifeTime: time.Minute,
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     cfg.User,
				"POSTGRES_PASSWORD": cfg.Password,
				"POSTGRES_DB":       cfg.Name,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	cfg.Host, err = container.Host(ctx)
	if err != nil {
		t.Fatalf("could not resolve postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("could not resolve postgres port: %v", err)
	}
	cfg.Port = int(port.Num())

	if cfg.MigrationsDir, err = migrationsDir(); err != nil {
		t.Fatalf("could not find migrations: %v", err)
	}

	db, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := Migrate(db, cfg.MigrationsDir, MigrateUp); err != nil && !errors.Is(err, ErrNoChange) {
		t.Fatalf("failed to run up migrations: %v", err)
	}

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate postgres container: %v", err)
		}
	}

	truncate := func() {
		if _, err := db.Exec(`TRUNCATE TABLE uploaded_files`); err != nil {
			t.Fatalf("failed to truncate uploaded_files: %v", err)
		}
	}
	return db, cleanup, truncate
}
