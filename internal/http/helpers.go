package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

// requestID returns the caller's X-Request-ID when it is a UUID, or a new one.
func requestID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(headerRequestID)); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
