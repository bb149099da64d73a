// Package openapi generates the OpenAPI 3 document for the HTTP surface.
package openapi

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/schema"
)

// Options describe the document being generated.
type Options struct {
	Version     string
	ServerURL   string
	Table       string
	AuthEnabled bool
	// Groups, when set, annotate Person properties with their catalog types.
	Groups []schema.TableGroup
}

// Generate builds the document for GET /person and the operational routes.
func Generate(opts Options) *openapi3.T {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Table == "" {
		opts.Table = "Person"
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "askdb API",
			Description: fmt.Sprintf("Natural-language queries against the %s table, translated to SQL by a language model.", opts.Table),
			Version:     opts.Version,
		},
	}
	if opts.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: opts.ServerURL}}
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		"Person":        personSchema(catalogIndex(opts.Groups)),
		"ErrorResponse": errorSchema(),
	}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components
	if opts.AuthEnabled {
		doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
			},
		}
	}

	doc.Paths = openapi3.NewPaths()
	doc.Paths.Set("/person", &openapi3.PathItem{Get: personOperation(opts.AuthEnabled)})
	doc.Paths.Set("/healthz", &openapi3.PathItem{Get: probeOperation("healthz", "Liveness probe.")})
	doc.Paths.Set("/readyz", &openapi3.PathItem{Get: probeOperation("readyz", "Readiness probe; pings the database.")})

	return doc
}

func personOperation(auth bool) *openapi3.Operation {
	q := openapi3.NewQueryParameter("q").
		WithDescription("Natural-language request, e.g. \"everyone whose last name is Miller\".").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema())

	op := &openapi3.Operation{
		Tags:        []string{"person"},
		Summary:     "Query people in natural language",
		Description: "Translates q into SQL with a language model, runs it, and returns the matching rows.",
		OperationID: "getPerson",
		Parameters:  openapi3.Parameters{&openapi3.ParameterRef{Value: q}},
		Responses: newResponses("200", "Matching rows", &openapi3.SchemaRef{
			Value: &openapi3.Schema{
				Type:  &openapi3.Types{"array"},
				Items: openapi3.NewSchemaRef("#/components/schemas/Person", nil),
			},
		}),
	}
	if auth {
		op.Security = &openapi3.SecurityRequirements{{"bearerAuth": {}}}
		unauth := "Missing or invalid bearer token"
		op.Responses.Set("401", &openapi3.ResponseRef{Value: &openapi3.Response{
			Description: &unauth,
			Content:     openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)),
		}})
	}
	return op
}

func probeOperation(id, summary string) *openapi3.Operation {
	responses := openapi3.NewResponses()
	ok := "OK"
	unavailable := "Unavailable"
	responses.Set("200", &openapi3.ResponseRef{Value: &openapi3.Response{Description: &ok}})
	if id == "readyz" {
		responses.Set("503", &openapi3.ResponseRef{Value: &openapi3.Response{
			Description: &unavailable,
			Content:     openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)),
		}})
	}
	return &openapi3.Operation{
		Tags:        []string{"system"},
		Summary:     summary,
		OperationID: id,
		Responses:   responses,
	}
}

// newResponses builds a response set with the success entry plus 400 and 500.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	errorRef := openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)

	badReqDesc := "Missing, blank, or oversize q"
	responses.Set("400", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &badReqDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
		},
	})

	serverErrDesc := "The request could not be processed"
	responses.Set("500", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &serverErrDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
		},
	})

	return responses
}

func errorSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
							"message": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}
}

// catalogIndex keys catalog columns by column name.
func catalogIndex(groups []schema.TableGroup) map[string]model.SchemaColumn {
	idx := make(map[string]model.SchemaColumn)
	for _, g := range groups {
		for _, c := range g.Columns {
			idx[strings.ToLower(c.ColumnName)] = c
		}
	}
	return idx
}

var timeType = reflect.TypeOf(time.Time{})

// personSchema derives the row schema from model.Person's tags. Pointer
// fields are nullable and optional.
func personSchema(catalog map[string]model.SchemaColumn) *openapi3.SchemaRef {
	s := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: openapi3.Schemas{},
	}

	rt := reflect.TypeOf(model.Person{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		column := f.Tag.Get("db")
		if name == "" || name == "-" {
			continue
		}

		ft := f.Type
		nullable := ft.Kind() == reflect.Pointer
		if nullable {
			ft = ft.Elem()
		}

		prop := goTypeSchema(ft)
		prop.Nullable = nullable
		if col, ok := catalog[strings.ToLower(column)]; ok {
			m := MapDBType(col.DataType)
			if prop.Type.Is("string") && m.Format != "" {
				prop.Format = m.Format
			}
			prop.Description = fmt.Sprintf("%s.%s.%s (%s)", col.SchemaName, col.TableName, col.ColumnName, col.DataType)
		} else {
			prop.Description = "Column " + column
		}
		s.Properties[name] = &openapi3.SchemaRef{Value: prop}
		if !nullable {
			s.Required = append(s.Required, name)
		}
	}
	return &openapi3.SchemaRef{Value: s}
}

func goTypeSchema(t reflect.Type) *openapi3.Schema {
	switch {
	case t == timeType:
		return &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}
	case t.Kind() == reflect.Bool:
		return &openapi3.Schema{Type: &openapi3.Types{"boolean"}}
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int32:
		return &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}
	case t.Kind() == reflect.Int64:
		return &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double"}
	case t.Kind() == reflect.Array && t.Elem().Kind() == reflect.Uint8:
		// mssql.UniqueIdentifier marshals as a GUID string
		return &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "uuid"}
	default:
		return &openapi3.Schema{Type: &openapi3.Types{"string"}}
	}
}
