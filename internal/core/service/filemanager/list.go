package filemanager

import (
	"context"
	"errors"
	"fileupload/internal/core/domain"
	"fileupload/internal/filex"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// List returns the stored files of a profile with their URLs
func (f *fileManager) List(ctx context.Context, profileName, deleteBaseURL string) ([]domain.FileRecord, error) {
	p, err := f.profile(profileName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.UploadDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.FileRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	files := make([]domain.FileRecord, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// zero-length entries are name reservations of uploads in flight
		if info.Size() == 0 && p.MinFileSize > 0 {
			continue
		}

		record := domain.FileRecord{
			Name:       name,
			Size:       info.Size(),
			Type:       mime.TypeByExtension(filepath.Ext(name)),
			URL:        p.FileURL(name),
			DeleteURL:  p.DeleteURL(deleteBaseURL, name),
			DeleteType: p.DeleteType,
			Versions:   map[string]string{},
		}
		for _, version := range p.ImageVersions {
			if filex.IsRegular(filepath.Join(p.UploadDir, version.Name, name)) {
				record.Versions[version.Name] = p.VersionURL(version.Name, name)
			}
		}
		files = append(files, record)
	}
	return files, nil
}
