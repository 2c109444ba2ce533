package upload_test

import (
	"encoding/json"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/service/filemanager"
	"fileupload/internal/core/service/upload"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListFilesV1(t *testing.T) {
	t.Run("success - lists records", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		mockManager.On("List", mock.Anything, "default", "http://example.com/upload/default").
			Return([]domain.FileRecord{{Name: "a.png", Size: 3, URL: "/files/a.png", Versions: map[string]string{"thumbnail": "/files/thumbnail/a.png"}}}, nil)
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodGet, "/upload/default", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		var resp filesResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Files, 1)
		assert.Equal(t, "/files/thumbnail/a.png", resp.Files[0]["thumbnailUrl"])
		mockManager.AssertExpectations(t)
	})

	t.Run("success - empty list is an empty array", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		mockManager.On("List", mock.Anything, "default", mock.Anything).Return([]domain.FileRecord(nil), nil)
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodGet, "/upload/default", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"files":[]}`, w.Body.String())
	})

	t.Run("error - unknown profile", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		mockManager.On("List", mock.Anything, "nope", mock.Anything).Return([]domain.FileRecord(nil), domain.ErrProfileNotFound)
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodGet, "/upload/nope", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteFileV1(t *testing.T) {
	t.Run("success - DELETE", func(t *testing.T) {
		// Arrange
		mockService := upload.NewMockUploadService()
		mockService.On("Destroy", mock.Anything, "default", "a.png", mock.Anything).Return(true, nil)
		h := newMockRouter(mockService, filemanager.NewMockFileManager())
		req := httptest.NewRequest(http.MethodDelete, "/upload/default/a.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("success - POST with method override", func(t *testing.T) {
		// Arrange
		mockService := upload.NewMockUploadService()
		mockService.On("Destroy", mock.Anything, "default", "a b.png", mock.Anything).Return(false, nil)
		h := newMockRouter(mockService, filemanager.NewMockFileManager())
		req := httptest.NewRequest(http.MethodPost, "/upload/default/a%20b.png?_method=DELETE", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":false}`, w.Body.String())
	})

	t.Run("success - name escaped in a non canonical form", func(t *testing.T) {
		// Arrange
		mockService := upload.NewMockUploadService()
		mockService.On("Destroy", mock.Anything, "default", "photo (1).png", mock.Anything).Return(true, nil)
		h := newMockRouter(mockService, filemanager.NewMockFileManager())
		req := httptest.NewRequest(http.MethodDelete, "/upload/default/photo%20(1).png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("error - POST without override", func(t *testing.T) {
		// Arrange
		mockService := upload.NewMockUploadService()
		h := newMockRouter(mockService, filemanager.NewMockFileManager())
		req := httptest.NewRequest(http.MethodPost, "/upload/default/a.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		mockService.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("error - unknown profile", func(t *testing.T) {
		// Arrange
		mockService := upload.NewMockUploadService()
		mockService.On("Destroy", mock.Anything, "nope", "a.png", mock.Anything).Return(false, domain.ErrProfileNotFound)
		h := newMockRouter(mockService, filemanager.NewMockFileManager())
		req := httptest.NewRequest(http.MethodDelete, "/upload/nope/a.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMoveFileV1(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		mockManager.On("Move", mock.Anything, "default", "a.png", "2024/albums").Return(&domain.MoveResult{
			Filename: "a.png",
			URL:      "/archive/2024/albums/a.png",
			Versions: map[string]string{"thumbnail": "/archive/2024/albums/thumbnail/a.png"},
		}, nil)
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodPost, "/upload/default/a.png/move", strings.NewReader(`{"targetDir":"2024/albums"}`))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "a.png", resp["filename"])
		assert.Equal(t, "/archive/2024/albums/a.png", resp["url"])
		assert.Equal(t, "/archive/2024/albums/thumbnail/a.png", resp["thumbnailUrl"])
	})

	t.Run("success - name escaped in a non canonical form", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		mockManager.On("Move", mock.Anything, "default", "photo (1).png", "").
			Return(&domain.MoveResult{Filename: "photo (1).png", URL: "/archive/photo%20%281%29.png"}, nil)
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodPost, "/upload/default/photo%20(1).png/move", strings.NewReader(`{"targetDir":""}`))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		mockManager.AssertExpectations(t)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: a.png", domain.ErrFileNotFound), http.StatusNotFound},
		{"traversal", fmt.Errorf("%w: ../x", domain.ErrPathTraversal), http.StatusForbidden},
		{"unknown profile", domain.ErrProfileNotFound, http.StatusNotFound},
		{"internal", assert.AnError, http.StatusServiceUnavailable},
	}
	for _, tc := range errorCases {
		t.Run("error - "+tc.name, func(t *testing.T) {
			// Arrange
			mockManager := filemanager.NewMockFileManager()
			mockManager.On("Move", mock.Anything, "default", "a.png", "../x").Return((*domain.MoveResult)(nil), tc.err)
			h := newMockRouter(upload.NewMockUploadService(), mockManager)
			req := httptest.NewRequest(http.MethodPost, "/upload/default/a.png/move", strings.NewReader(`{"targetDir":"../x"}`))
			w := httptest.NewRecorder()

			// Act
			h.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tc.status, w.Code)
		})
	}

	t.Run("error - invalid body", func(t *testing.T) {
		// Arrange
		mockManager := filemanager.NewMockFileManager()
		h := newMockRouter(upload.NewMockUploadService(), mockManager)
		req := httptest.NewRequest(http.MethodPost, "/upload/default/a.png/move", strings.NewReader(`{`))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockManager.AssertNotCalled(t, "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServeFileV1(t *testing.T) {
	profile := newProfile(t)
	writeFile(t, filepath.Join(profile.UploadDir, "a.png"), "png-bytes")
	writeFile(t, filepath.Join(profile.UploadDir, "thumbnail", "a.png"), "thumb-bytes")
	writeFile(t, filepath.Join(profile.UploadDir, "page.html"), "<script></script>")
	h := newRouter(profile, nil)

	t.Run("success - safe type inline", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/upload/default/files/a.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png-bytes", w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("success - version", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/upload/default/files/thumbnail/a.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "thumb-bytes", w.Body.String())
	})

	t.Run("success - unsafe type downloads", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/upload/default/files/page.html", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename=page.html`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	})

	t.Run("error - missing file", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/upload/default/files/missing.png", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("error - directory", func(t *testing.T) {
		// Arrange
		req := httptest.NewRequest(http.MethodGet, "/upload/default/files/thumbnail", nil)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
