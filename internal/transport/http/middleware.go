package httpserver

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/milad/meterreads/internal/logger"
)

// requestLog echoes the request id, attaches a request logger, records metrics
// and writes one log line per request. Health checks and scrapes are not logged.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := chiMiddleware.GetReqID(r.Context())
		if reqID != "" {
			w.Header().Set("X-Request-Id", reqID)
		}

		l := s.log.With(zap.String("request_id", reqID))
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), l)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observeHTTPRequest(r, status, dur)

		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			return
		}
		l.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", dur),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

// recoverer turns a handler panic into a JSON 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			writeAPIError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
