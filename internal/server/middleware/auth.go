package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/service"
)

// RequireBearer rejects requests without a valid HS256 bearer token and
// attaches the principal to the request context. When auth is disabled it
// passes every request through untouched.
func RequireBearer(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !authSvc.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, r, http.StatusUnauthorized, "Authentication required. Provide a Bearer token.")
				return
			}

			p, err := authSvc.ValidateJWT(strings.TrimSpace(token))
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, service.ErrTokenExpired) {
					msg = "Token expired"
				}
				writeError(w, r, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(service.ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// writeError writes the same envelope as the handlers, including the
// request ID when one is set.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var ctxMap map[string]interface{}
	if id := observability.RequestIDFromContext(r.Context()); id != "" {
		ctxMap = map[string]interface{}{"request_id": id}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{Code: status, Message: message, Context: ctxMap},
	})
}
