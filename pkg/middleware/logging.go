package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logging logs one line per request with duration and payload size
// tracking. Server errors are logged at error level.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			fields := appendLoggerFields(r.Context(),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.String("duration", duration.String()),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.Int("response_size_bytes", sw.bytes),
			)
			if sw.status >= http.StatusInternalServerError {
				logger.LogAttrs(r.Context(), slog.LevelError, "request failed", fields...)
			} else {
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request completed", fields...)
			}
		})
	}
}

func appendLoggerFields(ctx context.Context, base ...slog.Attr) []slog.Attr {
	if requestID, ok := RequestIDFromContext(ctx); ok && requestID != "" {
		base = append(base, slog.String("request_id", requestID))
	}
	return base
}
