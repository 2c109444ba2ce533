package upload

import (
	"errors"
	"fileupload/internal/core/domain"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// V1DeleteFileResponse is the response to a delete
type V1DeleteFileResponse struct {
	Success bool `json:"success"`
}

// DeleteFileV1 destroys a stored file; POST is accepted with ?_method=DELETE
func (h *HandlerV1) DeleteFileV1(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Query().Get("_method") != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profile := chi.URLParam(r, "profile")
	name, err := urlParam(r, "name")
	if err != nil {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}
	if name == "" {
		http.Error(w, "file name is required", http.StatusBadRequest)
		return
	}

	ok, err := h.uploadService.Destroy(r.Context(), profile, name, h.listener)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error deleting file", "profile", profile, "name", name, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, r, http.StatusOK, V1DeleteFileResponse{Success: ok})
}
