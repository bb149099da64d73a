package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/askdb/askdb/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a UUID v7 to each request unless the client sent an
// X-Request-ID header. The ID is echoed in the response and stored in the
// request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.Must(uuid.NewV7()).String()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := observability.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
