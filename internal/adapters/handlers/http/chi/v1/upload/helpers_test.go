package upload_test

import (
	"bytes"
	"fileupload/internal/adapters/decoder/multipart"
	"fileupload/internal/adapters/handlers/http/chi"
	handler "fileupload/internal/adapters/handlers/http/chi/v1/upload"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"fileupload/internal/core/service/filemanager"
	"fileupload/internal/core/service/upload"
	"io"
	"log/slog"
	mime "mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newProfile(t *testing.T) domain.UploadProfile {
	t.Helper()
	root := t.TempDir()
	return domain.UploadProfile{
		Name:            "default",
		UploadDir:       filepath.Join(root, "files"),
		UploadURL:       "/files",
		TmpDir:          filepath.Join(root, "tmp"),
		MinFileSize:     1,
		MaxFileSize:     1 << 20,
		MaxPostSize:     1 << 20,
		AcceptFileTypes: regexp.MustCompile(`.+`),
		ImageTypes:      regexp.MustCompile(`(?i)\.(gif|jpe?g|png)$`),
		SafeFileTypes:   regexp.MustCompile(`(?i)\.(gif|jpe?g|png)$`),
		DeleteType:      "DELETE",
		NamingPolicy:    domain.NamingPolicyCounter,
	}
}

// newRouter wires the real upload pipeline for profile; fileManager may be a mock
func newRouter(profile domain.UploadProfile, fileManager port.FileManager) http.Handler {
	uploadService := upload.NewUploadService([]domain.UploadProfile{profile}, nil, discardLogger)
	if fileManager == nil {
		fileManager = filemanager.NewFileManager([]domain.UploadProfile{profile}, nil, discardLogger)
	}
	h := handler.NewUploadHandlerV1(uploadService, fileManager, multipart.NewDecoder(discardLogger), nil, "/upload", discardLogger)
	return chi.NewRouter(discardLogger, h, "/upload", "")
}

// newMockRouter wires mocks behind the handler
func newMockRouter(uploadService port.UploadService, fileManager port.FileManager) http.Handler {
	h := handler.NewUploadHandlerV1(uploadService, fileManager, multipart.NewDecoder(discardLogger), nil, "/upload", discardLogger)
	return chi.NewRouter(discardLogger, h, "/upload", "")
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := mime.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile("files[]", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
