// Package handler implements the HTTP handlers for the natural-language
// query endpoint and the generated API document.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/query"
	"github.com/askdb/askdb/internal/service"
)

// Querier runs a natural-language request to completion.
type Querier interface {
	Run(ctx context.Context, request string) ([]model.Person, error)
}

// PersonHandler serves GET /person.
type PersonHandler struct {
	svc Querier
}

func NewPersonHandler(svc Querier) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// Query translates the q parameter to SQL, runs it, and returns the rows as a
// JSON array. Pipeline failures all produce the same generic 500 body; the
// cause is only logged.
// GET /person?q=...
func (h *PersonHandler) Query(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if !values.Has("q") {
		writeError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	people, err := h.svc.Run(r.Context(), values.Get("q"))
	if err != nil {
		if service.KindOf(err) == service.KindInvalidRequest {
			writeError(w, r, http.StatusBadRequest, invalidRequestMessage(err))
			return
		}
		writeError(w, r, http.StatusInternalServerError, service.PublicMessage)
		return
	}

	writeJSON(w, http.StatusOK, people)
}

func invalidRequestMessage(err error) string {
	switch {
	case errors.Is(err, query.ErrEmptyRequest):
		return "Query parameter q must not be blank"
	case errors.Is(err, query.ErrRequestTooLong):
		return "Query parameter q is too long"
	default:
		return "Invalid request"
	}
}
