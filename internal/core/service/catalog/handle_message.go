package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fileupload/internal/core/domain"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// HandleMessage applies one lifecycle event to the catalog.
// Undecodable events and unknown profiles are dropped; storage failures are returned for redelivery.
func (c *catalogService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.LifecycleEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logger.Error("dropping undecodable event", "error", err)
		return nil
	}

	profile, ok := c.profiles[event.Profile]
	if !ok {
		c.logger.Warn("dropping event of unknown profile", "profile", event.Profile, "event", event.Type)
		return nil
	}

	switch event.Type {
	case domain.EventTypeEnd:
		if event.File == nil || event.File.Error != "" {
			return nil
		}
		return c.index(ctx, profile, *event.File)
	case domain.EventTypeDelete, domain.EventTypeMove:
		if event.Name == "" || event.Error != "" {
			return nil
		}
		return c.forget(ctx, profile, event.Name)
	default:
		c.logger.Debug("ignoring event", "event", event.Type, "profile", event.Profile)
		return nil
	}
}

func (c *catalogService) index(ctx context.Context, profile domain.UploadProfile, file domain.FileRecord) error {
	stored := domain.StoredFile{
		Profile:    profile.Name,
		Name:       file.Name,
		Size:       file.Size,
		MimeType:   file.Type,
		URL:        file.URL,
		StorageKey: StorageKey(profile.Name, "", file.Name),
		Versions:   map[string]string{},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentMirrors)
	g.Go(func() error {
		return c.mirror.PutFile(gCtx, stored.StorageKey, filepath.Join(profile.UploadDir, file.Name), file.Type)
	})
	for _, v := range profile.ImageVersions {
		if _, ok := file.Versions[v.Name]; !ok {
			continue
		}
		key := StorageKey(profile.Name, v.Name, file.Name)
		stored.Versions[v.Name] = key
		g.Go(func() error {
			return c.mirror.PutFile(gCtx, key, filepath.Join(profile.UploadDir, v.Name, file.Name), file.Type)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to mirror %s: %w", file.Name, err)
	}

	if err := c.repo.Upsert(ctx, stored); err != nil {
		return err
	}
	c.logger.Info("file indexed", "profile", profile.Name, "file", file.Name, "versions", len(stored.Versions))
	return nil
}

func (c *catalogService) forget(ctx context.Context, profile domain.UploadProfile, name string) error {
	keys := []string{StorageKey(profile.Name, "", name)}
	existing, err := c.repo.FindByName(ctx, profile.Name, name)
	switch {
	case err == nil:
		keys = []string{existing.StorageKey}
		for _, key := range existing.Versions {
			keys = append(keys, key)
		}
	case errors.Is(err, domain.ErrFileNotFound):
		for _, v := range profile.ImageVersions {
			keys = append(keys, StorageKey(profile.Name, v.Name, name))
		}
	default:
		return err
	}

	var errs []error
	for _, key := range keys {
		errs = append(errs, c.mirror.RemoveObject(ctx, key))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := c.repo.Delete(ctx, profile.Name, name); err != nil {
		return err
	}
	c.logger.Info("file removed from catalog", "profile", profile.Name, "file", name)
	return nil
}
