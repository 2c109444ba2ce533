package cleanup

import (
	"context"
	"errors"
	"fileupload/internal/core/domain"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupStaleTempFiles removes spooled uploads and name placeholders last modified before olderThan.
// Both are left behind only when the process dies mid-upload.
func (c *cleanupService) CleanupStaleTempFiles(ctx context.Context, olderThan time.Time) (int, error) {
	removed := 0
	var errs []error

	seen := make(map[string]bool)
	for _, profile := range c.profiles {
		if profile.TmpDir != "" && !seen[profile.TmpDir] {
			seen[profile.TmpDir] = true
			n, err := c.sweep(ctx, profile.TmpDir, olderThan, func(entry os.DirEntry, info os.FileInfo) bool {
				return strings.HasPrefix(entry.Name(), domain.TempFilePrefix)
			})
			removed += n
			errs = append(errs, err)
		}

		// a zero-length file is only a reservation when empty uploads are rejected
		if profile.MinFileSize > 0 {
			n, err := c.sweep(ctx, profile.UploadDir, olderThan, func(entry os.DirEntry, info os.FileInfo) bool {
				return info.Size() == 0 && !strings.HasPrefix(entry.Name(), ".")
			})
			removed += n
			errs = append(errs, err)
		}
	}

	c.logger.Info("stale upload cleanup completed", "removed", removed)
	return removed, errors.Join(errs...)
}

func (c *cleanupService) sweep(ctx context.Context, dir string, olderThan time.Time, match func(os.DirEntry, os.FileInfo) bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(olderThan) || !match(entry, info) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("failed to remove stale file", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
