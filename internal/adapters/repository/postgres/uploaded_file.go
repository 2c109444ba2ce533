package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fmt"
	"time"
)

type sqlUploadedFileRepository struct {
	db SQLQuerier
}

// NewSqlUploadedFileRepository creates sqlUploadedFileRepository that implements port.UploadedFileRepository
func NewSqlUploadedFileRepository(db SQLQuerier) port.UploadedFileRepository {
	return &sqlUploadedFileRepository{
		db: db,
	}
}

// Upsert inserts a file or refreshes the entry with the same profile and name
func (s *sqlUploadedFileRepository) Upsert(ctx context.Context, file domain.StoredFile) error {
	if file.Versions == nil {
		file.Versions = map[string]string{}
	}
	versions, err := json.Marshal(file.Versions)
	if err != nil {
		return fmt.Errorf("error encoding versions: %w", err)
	}

	query := `
		INSERT INTO uploaded_files (profile, name, size, mime_type, url, storage_key, versions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (profile, name) DO UPDATE SET
			size = EXCLUDED.size,
			mime_type = EXCLUDED.mime_type,
			url = EXCLUDED.url,
			storage_key = EXCLUDED.storage_key,
			versions = EXCLUDED.versions,
			updated_at = NOW()`

	_, err = s.db.ExecContext(ctx, query,
		file.Profile,
		file.Name,
		file.Size,
		file.MimeType,
		file.URL,
		file.StorageKey,
		versions,
	)
	if err != nil {
		return fmt.Errorf("error upserting file %s: %w", file.Name, err)
	}
	return nil
}

// FindByName finds a file of a profile by its stored name
func (s *sqlUploadedFileRepository) FindByName(ctx context.Context, profile, name string) (*domain.StoredFile, error) {
	query := `
		SELECT profile, name, size, mime_type, url, storage_key, versions, created_at, updated_at
		FROM uploaded_files
		WHERE profile = $1 AND name = $2`

	var fileDB dbUploadedFile
	err := fileDB.scan(s.db.QueryRowContext(ctx, query, profile, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	return fileDB.ToDomain()
}

// ListByProfile retrieves files with cursor-based pagination sorted by name
func (s *sqlUploadedFileRepository) ListByProfile(ctx context.Context, profile string, limit int, marker *string) ([]domain.StoredFile, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var query string
	var args []any

	if marker != nil && *marker != "" {
		query = `
			SELECT profile, name, size, mime_type, url, storage_key, versions, created_at, updated_at
			FROM uploaded_files
			WHERE profile = $1 AND name > $2
			ORDER BY name ASC
			LIMIT $3`
		args = []any{profile, *marker, limit + 1}
	} else {
		query = `
			SELECT profile, name, size, mime_type, url, storage_key, versions, created_at, updated_at
			FROM uploaded_files
			WHERE profile = $1
			ORDER BY name ASC
			LIMIT $2`
		args = []any{profile, limit + 1}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying files: %w", err)
	}
	defer rows.Close()

	files := make([]domain.StoredFile, 0, limit)
	for rows.Next() {
		var fileDB dbUploadedFile
		if err := fileDB.scan(rows); err != nil {
			return nil, nil, fmt.Errorf("error scanning file: %w", err)
		}
		file, err := fileDB.ToDomain()
		if err != nil {
			return nil, nil, err
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating files: %w", err)
	}

	var nextMarker *string
	if len(files) > limit {
		files = files[:limit]
		lastName := files[len(files)-1].Name
		nextMarker = &lastName
	}

	return files, nextMarker, nil
}

// Delete removes a file entry; deleting a missing entry is not an error
func (s *sqlUploadedFileRepository) Delete(ctx context.Context, profile, name string) error {
	query := `DELETE FROM uploaded_files WHERE profile = $1 AND name = $2`

	if _, err := s.db.ExecContext(ctx, query, profile, name); err != nil {
		return fmt.Errorf("error deleting file %s: %w", name, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// dbUploadedFile represents an uploaded file in DB
type dbUploadedFile struct {
	Profile    string    `db:"profile"`
	Name       string    `db:"name"`
	Size       int64     `db:"size"`
	MimeType   string    `db:"mime_type"`
	URL        string    `db:"url"`
	StorageKey string    `db:"storage_key"`
	Versions   []byte    `db:"versions"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (f *dbUploadedFile) scan(row scanner) error {
	return row.Scan(
		&f.Profile,
		&f.Name,
		&f.Size,
		&f.MimeType,
		&f.URL,
		&f.StorageKey,
		&f.Versions,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

// ToDomain converts to domain.StoredFile
func (f *dbUploadedFile) ToDomain() (*domain.StoredFile, error) {
	var versions map[string]string
	if len(f.Versions) > 0 {
		if err := json.Unmarshal(f.Versions, &versions); err != nil {
			return nil, fmt.Errorf("error decoding versions of %s: %w", f.Name, err)
		}
	}
	return &domain.StoredFile{
		Profile:    f.Profile,
		Name:       f.Name,
		Size:       f.Size,
		MimeType:   f.MimeType,
		URL:        f.URL,
		StorageKey: f.StorageKey,
		Versions:   versions,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}, nil
}
