package upload

import (
	"encoding/json"
	"errors"
	"fileupload/internal/core/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// V1MoveFileRequest is the body of a move
type V1MoveFileRequest struct {
	TargetDir string `json:"targetDir"`
}

// MoveFileV1 relocates a stored file and its versions below the profile's target root
func (h *HandlerV1) MoveFileV1(w http.ResponseWriter, r *http.Request) {
	profile := chi.URLParam(r, "profile")
	name, err := urlParam(r, "name")
	if err != nil {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	var req V1MoveFileRequest
	if err = json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.fileManager.Move(r.Context(), profile, name, req.TargetDir)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrFileNotFound):
		http.Error(w, "file not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrPathTraversal):
		http.Error(w, "forbidden path", http.StatusForbidden)
		return
	case err != nil:
		h.logger.Error("error moving file", "profile", profile, "name", name, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, r, http.StatusOK, result)
}
