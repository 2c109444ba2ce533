package config_test

import (
	"fileupload/internal/config"
	"fileupload/internal/core/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		UploadDir:       "/srv/files",
		UploadURL:       "/files",
		MinFileSize:     1,
		MaxFileSize:     1000,
		MaxPostSize:     2000,
		AcceptFileTypes: ".+",
		ImageTypes:      `(?i)\.(gif|jpe?g|png)$`,
		SafeFileTypes:   `(?i)\.(gif|jpe?g|png)$`,
		ImageVersions:   config.ImageVersions{{Name: "thumbnail", Width: domain.Dimension{Value: 80}, Height: domain.Dimension{Value: 80}}},
		DeleteType:      "DELETE",
		NamingPolicy:    "counter",
	}
}

func TestLoadProfiles_Default(t *testing.T) {
	// Act
	profiles, err := config.LoadProfiles(baseUploadConfig())

	// Assert
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	p := profiles[0]
	assert.Equal(t, config.DefaultProfileName, p.Name)
	assert.Equal(t, "/srv/files", p.TargetDir)
	assert.Equal(t, "/files", p.TargetURL)
	assert.Equal(t, os.TempDir(), p.TmpDir)
	assert.True(t, p.IsImage("a.JPG"))
	assert.False(t, p.IsImage("a.txt"))
	require.Len(t, p.ImageVersions, 1)
	assert.Equal(t, "80x80", p.ImageVersions[0].Geometry())
}

func TestParseProfiles(t *testing.T) {
	t.Run("success - overrides and inherited values", func(t *testing.T) {
		// Arrange
		doc := []byte(`
profiles:
  - name: avatars
    uploadDir: /srv/avatars
    uploadUrl: /avatars
    maxFileSize: 500
    namingPolicy: unique
    imageVersions:
      - name: thumbnail
        width: 80
        height: 80^
        imageArgs: [-gravity, center, -extent, 80x80]
      - name: exact
        width: "120!"
        height: 60
  - name: documents
    acceptFileTypes: '(?i)\.pdf$'
    imageVersions: []
`)

		// Act
		profiles, err := config.ParseProfiles(baseUploadConfig(), doc)

		// Assert
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		avatars := profiles[0]
		assert.Equal(t, "/srv/avatars", avatars.UploadDir)
		assert.Equal(t, int64(500), avatars.MaxFileSize)
		assert.Equal(t, int64(1), avatars.MinFileSize)
		assert.Equal(t, domain.NamingPolicyUnique, avatars.NamingPolicy)
		require.Len(t, avatars.ImageVersions, 2)
		assert.Equal(t, "80x80^", avatars.ImageVersions[0].Geometry())
		assert.Equal(t, []string{"-gravity", "center", "-extent", "80x80"}, avatars.ImageVersions[0].Args())
		assert.Equal(t, "120x60!", avatars.ImageVersions[1].Geometry())
		assert.Equal(t, domain.DefaultImageArgs, avatars.ImageVersions[1].Args())

		documents := profiles[1]
		assert.Equal(t, "/srv/files", documents.UploadDir)
		assert.Empty(t, documents.ImageVersions)
		assert.NoError(t, documents.Validate(10, "a.pdf"))
		assert.ErrorIs(t, documents.Validate(10, "a.png"), domain.ErrInvalidFileType)
	})

	t.Run("error - duplicate profile", func(t *testing.T) {
		doc := []byte("profiles:\n  - name: a\n  - name: a\n")

		_, err := config.ParseProfiles(baseUploadConfig(), doc)

		assert.Error(t, err)
	})

	t.Run("error - bad dimension", func(t *testing.T) {
		doc := []byte("profiles:\n  - name: a\n    imageVersions:\n      - name: t\n        width: wide\n")

		_, err := config.ParseProfiles(baseUploadConfig(), doc)

		assert.ErrorIs(t, err, domain.ErrInvalidDimension)
	})

	t.Run("error - version name collides with deleteUrl", func(t *testing.T) {
		doc := []byte("profiles:\n  - name: a\n    imageVersions:\n      - name: delete\n        width: 80\n")

		_, err := config.ParseProfiles(baseUploadConfig(), doc)

		assert.ErrorIs(t, err, domain.ErrInvalidVersionName)
	})

	t.Run("error - duplicate version name", func(t *testing.T) {
		doc := []byte("profiles:\n  - name: a\n    imageVersions:\n      - name: t\n        width: 80\n      - name: t\n        width: 200\n")

		_, err := config.ParseProfiles(baseUploadConfig(), doc)

		assert.ErrorIs(t, err, domain.ErrInvalidVersionName)
	})

	t.Run("error - inherited versions are checked too", func(t *testing.T) {
		cfg := baseUploadConfig()
		cfg.ImageVersions = append(cfg.ImageVersions, cfg.ImageVersions[0])

		_, err := config.LoadProfiles(cfg)

		assert.ErrorIs(t, err, domain.ErrInvalidVersionName)
	})

	t.Run("error - bad naming policy", func(t *testing.T) {
		doc := []byte("profiles:\n  - name: a\n    namingPolicy: random\n")

		_, err := config.ParseProfiles(baseUploadConfig(), doc)

		assert.Error(t, err)
	})

	t.Run("error - no profiles", func(t *testing.T) {
		_, err := config.ParseProfiles(baseUploadConfig(), []byte("profiles: []\n"))

		assert.Error(t, err)
	})
}

func TestLoadProfiles_FromFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: public\n"), 0o644))
	cfg := baseUploadConfig()
	cfg.ProfilesFile = path

	// Act
	profiles, err := config.LoadProfiles(cfg)

	// Assert
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "public", profiles[0].Name)
}

func TestImageVersions_Decode(t *testing.T) {
	var versions config.ImageVersions

	err := versions.Decode("thumbnail:80x80^, medium:200x")

	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "80x80^", versions[0].Geometry())
	assert.Equal(t, "200x", versions[1].Geometry())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "/upload", cfg.Server.BasePath)
	assert.Equal(t, int64(1), cfg.Upload.MinFileSize)
	assert.Equal(t, "counter", cfg.Upload.NamingPolicy)
	require.Len(t, cfg.Upload.ImageVersions, 1)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "uploader", Password: "p@ss", Name: "uploads", SSLMode: "disable"}

	assert.Equal(t, "postgres://uploader:p%40ss@db:5432/uploads?sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://other/db"
	assert.Equal(t, "postgres://other/db", cfg.DSN())
}
