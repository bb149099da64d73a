package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/askdb/askdb/internal/openapi"
	"github.com/askdb/askdb/internal/schema"
)

// Describer returns the catalog groups for the configured table.
type Describer interface {
	Describe(ctx context.Context) ([]schema.TableGroup, error)
}

// OpenAPIHandler serves the generated OpenAPI document.
type OpenAPIHandler struct {
	opts      openapi.Options
	describer Describer
	logger    *slog.Logger
}

// NewOpenAPIHandler creates an OpenAPIHandler. describer may be nil, in
// which case Person properties carry no catalog annotations.
func NewOpenAPIHandler(opts openapi.Options, describer Describer, logger *slog.Logger) *OpenAPIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAPIHandler{opts: opts, describer: describer, logger: logger}
}

// ServeSpec returns the document. Catalog lookups that fail are logged and
// the document is served without annotations.
// GET /openapi.json
func (h *OpenAPIHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	opts := h.opts
	if h.describer != nil {
		groups, err := h.describer.Describe(r.Context())
		if err != nil {
			h.logger.DebugContext(r.Context(), "openapi: serving without catalog annotations", "error", err)
		} else {
			opts.Groups = groups
		}
	}
	writeJSON(w, http.StatusOK, openapi.Generate(opts))
}
