package upload

import (
	"context"
	"errors"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// UploadFilesV1 streams a multipart body through an upload session and answers once every file is finalized
func (h *HandlerV1) UploadFilesV1(w http.ResponseWriter, r *http.Request) {
	profileName := chi.URLParam(r, "profile")

	profile, err := h.uploadService.Profile(profileName)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithCancelCause(r.Context())
	defer cancel(nil)

	session, err := h.uploadService.Begin(ctx, port.SessionOptions{
		Profile:       profileName,
		DeleteBaseURL: h.deleteBaseURL(r, profileName),
		Listener:      h.listener,
		Terminate:     cancel,
	})
	if err != nil {
		h.logger.Error("error opening upload session", "profile", profileName, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	h.decoder.Decode(ctx, r, profile.TmpDir, session)
	outcome := session.Wait()

	switch {
	case errors.Is(outcome.Err, domain.ErrRequestTooLarge):
		w.Header().Set("Connection", "close")
		http.Error(w, domain.ErrRequestTooLarge.Error(), http.StatusRequestEntityTooLarge)
		return
	case errors.Is(outcome.Err, domain.ErrMalformedRequest):
		http.Error(w, "malformed upload", http.StatusBadRequest)
		return
	case outcome.Err != nil:
		// the client is gone, nobody reads an answer
		h.logger.Info("upload aborted", "profile", profileName, "error", outcome.Err)
		return
	case outcome.Redirect != "":
		http.Redirect(w, r, outcome.Redirect, http.StatusFound)
		return
	}

	files := []domain.FileRecord{}
	if outcome.Result != nil {
		files = outcome.Result.Files
	}
	h.writeJSON(w, r, http.StatusOK, V1FilesResponse{Files: files})
}
