package upload

import (
	"encoding/json"
	"fileupload/internal/core/domain"
	"fileupload/internal/core/port"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	fileManager   port.FileManager
	decoder       port.FormDecoder
	listener      port.EventListener
	basePath      string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1; basePath is where Routes is mounted
func NewUploadHandlerV1(uploadService port.UploadService, fileManager port.FileManager, decoder port.FormDecoder, listener port.EventListener, basePath string, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: uploadService,
		fileManager:   fileManager,
		decoder:       decoder,
		listener:      listener,
		basePath:      strings.TrimSuffix(basePath, "/"),
		timeout:       60 * time.Second,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Options("/*", h.OptionsV1)

	// uploads stream for as long as the body takes
	router.Post("/{profile}", h.UploadFilesV1)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(h.timeout))
		r.Get("/{profile}", h.ListFilesV1)
		r.Delete("/{profile}/{name}", h.DeleteFileV1)
		r.Post("/{profile}/{name}", h.DeleteFileV1)
		r.Post("/{profile}/{name}/move", h.MoveFileV1)
		r.Get("/{profile}/files/*", h.ServeFileV1)
	})

	return router
}

// deleteBaseURL is the absolute URL under which files of profile are deleted
func (h *HandlerV1) deleteBaseURL(r *http.Request, profile string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + h.basePath + "/" + url.PathEscape(profile)
}

// urlParam returns the decoded route parameter key; chi matches on the raw path when one is set
func urlParam(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

// setNoCache sets the headers every JSON answer carries
func setNoCache(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Content-Disposition", `inline; filename="files.json"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain")
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	setNoCache(w, r)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// V1FilesResponse is the response carrying file records
type V1FilesResponse struct {
	Files []domain.FileRecord `json:"files"`
}
