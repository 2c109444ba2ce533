package upload_test

import (
	"context"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/service/upload"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Destroy(t *testing.T) {
	ctx := context.Background()

	t.Run("success - removes primary and present versions", func(t *testing.T) {
		// Arrange
		profile := newProfile(t, threeVersions...)
		require.NoError(t, os.MkdirAll(filepath.Join(profile.UploadDir, "thumbnail"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(profile.UploadDir, "photo.png"), []byte("p"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(profile.UploadDir, "thumbnail", "photo.png"), []byte("t"), 0o644))
		service := upload.NewUploadService([]domain.UploadProfile{profile}, nil, discardLogger)
		events := &recorder{}

		// Act
		ok, err := service.Destroy(ctx, "default", "photo.png", events)

		// Assert
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoFileExists(t, filepath.Join(profile.UploadDir, "photo.png"))
		assert.NoFileExists(t, filepath.Join(profile.UploadDir, "thumbnail", "photo.png"))
		deletes := events.ofType(domain.EventTypeDelete)
		require.Len(t, deletes, 1)
		assert.Equal(t, "photo.png", deletes[0].Name)
		assert.Empty(t, deletes[0].Error)
	})

	t.Run("error - traversal is refused without side effects", func(t *testing.T) {
		// Arrange
		profile := newProfile(t, threeVersions...)
		require.NoError(t, os.MkdirAll(profile.UploadDir, 0o755))
		secret := filepath.Join(filepath.Dir(profile.UploadDir), "secret.txt")
		require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))
		service := upload.NewUploadService([]domain.UploadProfile{profile}, nil, discardLogger)
		events := &recorder{}

		for _, name := range []string{"../secret.txt", "thumbnail/../../secret.txt", ".."} {
			// Act
			ok, err := service.Destroy(ctx, "default", name, events)

			// Assert
			require.NoError(t, err)
			assert.False(t, ok, name)
		}
		assert.FileExists(t, secret)
		assert.DirExists(t, profile.UploadDir)
		assert.Empty(t, events.ofType(domain.EventTypeDelete))
	})

	t.Run("error - nested name is refused", func(t *testing.T) {
		// Arrange
		profile := newProfile(t, threeVersions...)
		derivativePath := filepath.Join(profile.UploadDir, "thumbnail", "photo.png")
		require.NoError(t, os.MkdirAll(filepath.Dir(derivativePath), 0o755))
		require.NoError(t, os.WriteFile(derivativePath, []byte("t"), 0o644))
		service := upload.NewUploadService([]domain.UploadProfile{profile}, nil, discardLogger)
		events := &recorder{}

		// Act
		ok, err := service.Destroy(ctx, "default", "thumbnail/photo.png", events)

		// Assert
		require.NoError(t, err)
		assert.False(t, ok)
		assert.FileExists(t, derivativePath)
		assert.Empty(t, events.ofType(domain.EventTypeDelete))
	})

	t.Run("error - missing file still emits one delete event", func(t *testing.T) {
		// Arrange
		profile := newProfile(t)
		service := upload.NewUploadService([]domain.UploadProfile{profile}, nil, discardLogger)
		events := &recorder{}

		// Act
		ok, err := service.Destroy(ctx, "default", "ghost.png", events)

		// Assert
		require.NoError(t, err)
		assert.False(t, ok)
		deletes := events.ofType(domain.EventTypeDelete)
		require.Len(t, deletes, 1)
		assert.NotEmpty(t, deletes[0].Error)
	})

	t.Run("error - unknown profile", func(t *testing.T) {
		service := upload.NewUploadService(nil, nil, discardLogger)

		ok, err := service.Destroy(ctx, "missing", "a.png", nil)

		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
		assert.False(t, ok)
	})
}

func TestRedirectURL(t *testing.T) {
	result := &domain.UploadResult{Files: []domain.FileRecord{{Name: "a b.txt", Size: 1, Type: "text/plain"}}}

	location, err := upload.RedirectURL("/done?%s&%s", result)

	require.NoError(t, err)
	assert.Contains(t, location, "%20")
	assert.True(t, len(location) > len("/done?%s&%s"))
	assert.Contains(t, location, "&%s")
}
