package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// RequestIDHeader carries the request identifier in and out.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier, reusing the incoming
// header when present, and logs the request once served.
func RequestID(logger interfaces.Logger) func(http.Handler) http.Handler {
	logger = logging.Ensure(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := logging.ContextWithRequestID(r.Context(), id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			logger.WithContext(ctx).Debug("http.request.served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
