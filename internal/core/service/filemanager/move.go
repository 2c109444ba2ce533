package filemanager

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/filex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Move relocates a stored file and its derivatives below the profile's target root
func (f *fileManager) Move(ctx context.Context, profileName, name, targetDir string) (*domain.MoveResult, error) {
	p, err := f.profile(profileName)
	if err != nil {
		return nil, err
	}

	src, err := filex.Child(p.UploadDir, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrPathTraversal, name)
	}
	if !filex.IsRegular(src) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
	}

	dstDir, segments, err := resolveTarget(p.TargetDir, targetDir)
	if err != nil {
		return nil, err
	}

	namer := f.namer(p)
	newName, err := namer.Reserve(dstDir, filepath.Base(src))
	if err != nil {
		return nil, fmt.Errorf("failed to reserve target name: %w", err)
	}
	if err := filex.MoveFile(src, filepath.Join(dstDir, newName)); err != nil {
		_ = namer.Release(dstDir, newName)
		return nil, fmt.Errorf("failed to move file: %w", err)
	}

	result := &domain.MoveResult{
		Filename: newName,
		URL:      p.TargetFileURL(append(segments, newName)...),
		Versions: map[string]string{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentVersionMoves)
	for _, version := range p.ImageVersions {
		versionSrc := filepath.Join(p.UploadDir, version.Name, filepath.Base(src))
		if !filex.IsRegular(versionSrc) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			versionDir := filepath.Join(dstDir, version.Name)
			versionName, err := namer.Reserve(versionDir, filepath.Base(versionSrc))
			if err != nil {
				f.logger.Warn("failed to reserve derivative name", "version", version.Name, "error", err)
				return nil
			}
			if err := filex.MoveFile(versionSrc, filepath.Join(versionDir, versionName)); err != nil {
				_ = namer.Release(versionDir, versionName)
				f.logger.Warn("failed to move derivative", "version", version.Name, "error", err)
				return nil
			}
			mu.Lock()
			result.Versions[version.Name] = p.TargetFileURL(append(append([]string{}, segments...), version.Name, versionName)...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if f.listener != nil {
		f.listener.OnEvent(domain.LifecycleEvent{
			Type:    domain.EventTypeMove,
			Profile: p.Name,
			Name:    name,
			Target:  path.Join(append(segments, newName)...),
			At:      time.Now(),
		})
	}
	f.logger.Info("file moved", "profile", p.Name, "name", name, "target", dstDir, "filename", newName)
	return result, nil
}

// resolveTarget returns the absolute target directory and its path segments below root
func resolveTarget(root, targetDir string) (string, []string, error) {
	cleaned := filepath.ToSlash(filepath.Clean(filepath.FromSlash(targetDir)))
	if targetDir == "" || cleaned == "." {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", nil, err
		}
		return abs, nil, nil
	}
	dir, err := filex.Within(root, targetDir)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrPathTraversal, targetDir)
	}
	return dir, strings.Split(cleaned, "/"), nil
}
