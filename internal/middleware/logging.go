package middleware

import (
	"net/http"
	"time"

	"go-blog-cms/internal/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs every request once it has been served.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				entry := log.With(map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      status,
					"bytes":       ww.BytesWritten(),
					"duration_ms": time.Since(start).Milliseconds(),
					"request_id":  chimw.GetReqID(r.Context()),
				})
				if status >= http.StatusInternalServerError {
					entry.Warn("request completed")
					return
				}
				entry.Info("request completed")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
