package upload

import (
	"errors"
	"fileupload/internal/filex"
	"mime"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
)

// ServeFileV1 serves a stored file or derivative; unsafe types are forced to download
func (h *HandlerV1) ServeFileV1(w http.ResponseWriter, r *http.Request) {
	profile, err := h.uploadService.Profile(chi.URLParam(r, "profile"))
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	name, err := urlParam(r, "*")
	if err != nil {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}
	filePath, err := filex.Within(profile.UploadDir, name)
	if errors.Is(err, filex.ErrOutsideRoot) {
		http.Error(w, "forbidden path", http.StatusForbidden)
		return
	}
	if err != nil || !filex.IsRegular(filePath) {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("error reading file", "path", filePath, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	base := path.Base(name)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if !profile.IsSafe(base) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": base}))
	}
	http.ServeContent(w, r, base, info.ModTime(), f)
}
