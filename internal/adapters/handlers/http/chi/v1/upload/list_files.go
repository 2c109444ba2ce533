package upload

import (
	"errors"
	"fileupload/internal/core/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListFilesV1 lists the stored files of a profile
func (h *HandlerV1) ListFilesV1(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")

	files, err := h.fileManager.List(r.Context(), profile, h.deleteBaseURL(r, profile))
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error listing files", "profile", profile, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	if files == nil {
		files = []domain.FileRecord{}
	}
	h.writeJSON(w, r, http.StatusOK, V1FilesResponse{Files: files})
}
