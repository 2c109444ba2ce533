package chi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware is a custom logging middleware
func LoggerMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if r.URL.Path == "/health" {
					return
				}
				attrs := []any{
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes_in", r.ContentLength,
					"bytes_out", ww.BytesWritten(),
					"duration", time.Since(start),
				}
				if ww.Status() >= http.StatusInternalServerError {
					l.Error("http_request", attrs...)
					return
				}
				l.Info("http_request", attrs...)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
