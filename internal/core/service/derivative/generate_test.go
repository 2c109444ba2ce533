package derivative_test

import (
	"context"
	"errors"
	"fileupload/internal/adapters/transform"
	"fileupload/internal/core/barrier"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/derivative"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var imageTypes = regexp.MustCompile(`(?i)\.(gif|jpe?g|png)$`)

func newJob(t *testing.T, name string, versions ...domain.ImageVersionSpec) port.DerivativeJob {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(src, []byte("image"), 0o644))
	return port.DerivativeJob{
		Profile:    "default",
		FileName:   name,
		SourcePath: src,
		Versions:   versions,
		ImageTypes: imageTypes,
		VersionDir: func(version string) string { return filepath.Join(dir, version) },
	}
}

func writeDest(args mock.Arguments) {
	req := args.Get(1).(domain.TransformRequest)
	_ = os.WriteFile(req.DestPath, []byte("resized"), 0o644)
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("barrier never released")
	}
}

func TestGenerator_Generate(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success - finalize runs after every version", func(t *testing.T) {
		// Arrange
		versions := []domain.ImageVersionSpec{
			{Name: "thumbnail", Width: domain.Dimension{Value: 80}, Height: domain.Dimension{Value: 80, Mode: domain.FitModeFill}},
			{Name: "medium", Width: domain.Dimension{Value: 200}, Height: domain.Dimension{Value: 200}},
			{Name: "large", Width: domain.Dimension{Value: 800}, Height: domain.Dimension{Value: 600}, ImageArgs: []string{"-strip"}},
		}
		job := newJob(t, "photo.png", versions...)

		var completed atomic.Int32
		mockTransformer := transform.NewMockTransformer()
		mockTransformer.On("Transform", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				time.Sleep(20 * time.Millisecond)
				writeDest(args)
				completed.Add(1)
			}).
			Return(nil)

		done := make(chan struct{})
		var completedAtFinalize int32
		b := barrier.New(func() {
			completedAtFinalize = completed.Load()
			close(done)
		})
		generator := derivative.NewDerivativeGenerator(mockTransformer, discardLogger)

		// Act
		generator.Generate(context.Background(), job, b)
		b.Leave()
		waitFor(t, done)

		// Assert
		assert.Equal(t, int32(3), completedAtFinalize)
		mockTransformer.AssertNumberOfCalls(t, "Transform", 3)
		for _, v := range versions {
			assert.FileExists(t, filepath.Join(job.VersionDir(v.Name), "photo.png"))
		}
	})

	t.Run("success - default args and request shape", func(t *testing.T) {
		// Arrange
		spec := domain.ImageVersionSpec{Name: "thumbnail", Width: domain.Dimension{Value: 80}, Height: domain.Dimension{Value: 80, Mode: domain.FitModeExact}}
		job := newJob(t, "photo.jpg", spec)

		mockTransformer := transform.NewMockTransformer()
		mockTransformer.On("Transform", mock.Anything, domain.TransformRequest{
			Width:      spec.Width,
			Height:     spec.Height,
			SourcePath: job.SourcePath,
			DestPath:   filepath.Join(job.VersionDir("thumbnail"), "photo.jpg"),
			ExtraArgs:  []string{"-auto-orient"},
		}).Return(nil)

		done := make(chan struct{})
		b := barrier.New(func() { close(done) })

		// Act
		derivative.NewDerivativeGenerator(mockTransformer, discardLogger).Generate(context.Background(), job, b)
		b.Leave()
		waitFor(t, done)

		// Assert
		mockTransformer.AssertExpectations(t)
		assert.DirExists(t, job.VersionDir("thumbnail"))
	})

	t.Run("success - failed version is swallowed and its output removed", func(t *testing.T) {
		// Arrange
		job := newJob(t, "photo.png",
			domain.ImageVersionSpec{Name: "ok", Width: domain.Dimension{Value: 10}},
			domain.ImageVersionSpec{Name: "broken", Width: domain.Dimension{Value: 20}},
		)
		mockTransformer := transform.NewMockTransformer()
		mockTransformer.On("Transform", mock.Anything, mock.MatchedBy(func(req domain.TransformRequest) bool {
			return req.Width.Value == 10
		})).Run(writeDest).Return(nil)
		mockTransformer.On("Transform", mock.Anything, mock.MatchedBy(func(req domain.TransformRequest) bool {
			return req.Width.Value == 20
		})).Run(writeDest).Return(errors.New("convert: corrupt image"))

		done := make(chan struct{})
		b := barrier.New(func() { close(done) })

		// Act
		derivative.NewDerivativeGenerator(mockTransformer, discardLogger).Generate(context.Background(), job, b)
		b.Leave()
		waitFor(t, done)

		// Assert
		assert.FileExists(t, filepath.Join(job.VersionDir("ok"), "photo.png"))
		assert.NoFileExists(t, filepath.Join(job.VersionDir("broken"), "photo.png"))
		mockTransformer.AssertExpectations(t)
	})

	t.Run("success - non image is skipped", func(t *testing.T) {
		// Arrange
		job := newJob(t, "notes.txt", domain.ImageVersionSpec{Name: "thumbnail", Width: domain.Dimension{Value: 80}})
		mockTransformer := transform.NewMockTransformer()
		b := barrier.New(func() {})

		// Act
		derivative.NewDerivativeGenerator(mockTransformer, discardLogger).Generate(context.Background(), job, b)

		// Assert
		assert.Equal(t, int64(1), b.Pending())
		mockTransformer.AssertNotCalled(t, "Transform", mock.Anything, mock.Anything)
		assert.NoDirExists(t, job.VersionDir("thumbnail"))
	})

	t.Run("success - timeout bounds a hung transform", func(t *testing.T) {
		// Arrange
		job := newJob(t, "photo.png", domain.ImageVersionSpec{Name: "thumbnail", Width: domain.Dimension{Value: 80}})
		mockTransformer := transform.NewMockTransformer()
		mockTransformer.On("Transform", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(context.DeadlineExceeded)

		done := make(chan struct{})
		b := barrier.New(func() { close(done) })
		generator := derivative.NewDerivativeGenerator(mockTransformer, discardLogger, derivative.WithTimeout(50*time.Millisecond))

		// Act
		generator.Generate(context.Background(), job, b)
		b.Leave()

		// Assert
		waitFor(t, done)
		assert.NoFileExists(t, filepath.Join(job.VersionDir("thumbnail"), "photo.png"))
	})
}
