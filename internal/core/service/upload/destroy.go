package upload

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/filex"
	"os"
	"path/filepath"
	"time"
)

// Destroy removes a stored file and its derivatives; names that are not a direct child of the upload dir are refused untouched
func (u *uploadService) Destroy(ctx context.Context, profileName, name string, listener port.EventListener) (bool, error) {
	profile, err := u.Profile(profileName)
	if err != nil {
		return false, err
	}

	path, err := filex.Child(profile.UploadDir, name)
	if err != nil {
		u.logger.Warn("refused delete outside upload dir", "profile", profileName, "name", name)
		return false, nil
	}

	var removeErr error
	if filex.IsRegular(path) {
		removeErr = os.Remove(path)
	} else {
		removeErr = domain.ErrFileNotFound
	}

	for _, version := range profile.ImageVersions {
		versionPath, err := filex.Child(filepath.Join(profile.UploadDir, version.Name), name)
		if err != nil {
			continue
		}
		if err := filex.RemoveIfExists(versionPath); err != nil {
			u.logger.Warn("failed to remove derivative", "profile", profileName, "version", version.Name, "name", name, "error", err)
		}
	}

	event := domain.LifecycleEvent{
		Type:    domain.EventTypeDelete,
		Profile: profile.Name,
		Name:    name,
		At:      time.Now(),
	}
	if removeErr != nil {
		event.Error = removeErr.Error()
		u.logger.Info("delete did not remove a file", "profile", profileName, "name", name, "error", removeErr)
	}
	if listener != nil {
		listener.OnEvent(event)
	}
	return removeErr == nil, nil
}
