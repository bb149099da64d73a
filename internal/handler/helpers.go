package handler

import (
	"encoding/json"
	"net/http"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/observability"
)

// writeJSON serializes v as JSON and writes it to the response with the given
// HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope. The request ID, when
// present, is added to the context map.
func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	var ctxMap map[string]interface{}
	if id := observability.RequestIDFromContext(r.Context()); id != "" {
		ctxMap = map[string]interface{}{"request_id": id}
	}
	writeJSON(w, code, model.ErrorResponse{
		Error: model.ErrorDetail{
			Code:    code,
			Message: message,
			Context: ctxMap,
		},
	})
}
